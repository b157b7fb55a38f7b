package bench

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// HostInfo 벤치마크를 돌린 머신 정보
type HostInfo struct {
	NumCPU     int      `json:"num_cpu"`
	GOMAXPROCS int      `json:"gomaxprocs"`
	GOOS       string   `json:"goos"`
	GOARCH     string   `json:"goarch"`
	GoVersion  string   `json:"go_version"`
	Features   []string `json:"cpu_features,omitempty"`
}

// CollectHostInfo 현재 프로세스 기준 정보 수집
func CollectHostInfo() HostInfo {
	return HostInfo{
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		GoVersion:  runtime.Version(),
		Features:   cpuFeatures(),
	}
}

func cpuFeatures() []string {
	flags := []struct {
		name string
		has  bool
	}{
		{"sse4.2", cpu.X86.HasSSE42},
		{"popcnt", cpu.X86.HasPOPCNT},
		{"avx2", cpu.X86.HasAVX2},
		{"avx512f", cpu.X86.HasAVX512F},
		{"asimd", cpu.ARM64.HasASIMD},
		{"atomics", cpu.ARM64.HasATOMICS},
		{"sve", cpu.ARM64.HasSVE},
	}

	var features []string
	for _, f := range flags {
		if f.has {
			features = append(features, f.name)
		}
	}
	return features
}
