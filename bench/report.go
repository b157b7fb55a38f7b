package bench

import (
	"bufio"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/rlaau/S_A_Benchmark/sort"
)

// Report 보고서 전체
type Report struct {
	RunID     string      `json:"run_id"`
	CreatedAt time.Time   `json:"created_at"`
	Host      HostInfo    `json:"host"`
	Config    sort.Config `json:"config"`
	Options   Options     `json:"options"`
	Results   []Result    `json:"results"`
}

// Summary (크기, 저장 방식, 알고리즘) 별 평균
type Summary struct {
	DataSize    int           `json:"data_size"`
	StorageType string        `json:"storage_type"`
	Algorithm   string        `json:"algorithm"`
	Runs        int           `json:"runs"`
	AvgDuration time.Duration `json:"avg_duration"`
	AvgMemory   uint64        `json:"avg_memory_bytes"`
	AllSorted   bool          `json:"all_sorted"`
	// Speedup stdlib 평균 시간 / 이 알고리즘 평균 시간. 기준이 없으면 0.
	Speedup float64 `json:"speedup"`
}

type groupKey struct {
	size    int
	storage string
}

// Summarize 결과를 묶어 평균과 stdlib 대비 속도 향상을 계산한다.
// 크기 오름차순, 같은 크기 안에서는 AlgorithmNames 순서.
func Summarize(results []Result) []Summary {
	groups := lo.GroupBy(results, func(r Result) groupKey {
		return groupKey{size: r.DataSize, storage: r.StorageType}
	})

	keys := lo.Keys(groups)
	slices.SortFunc(keys, func(a, b groupKey) int {
		return cmp.Or(cmp.Compare(a.size, b.size), cmp.Compare(a.storage, b.storage))
	})

	var out []Summary
	for _, key := range keys {
		byAlgo := lo.GroupBy(groups[key], func(r Result) string { return r.Algorithm })

		var rows []Summary
		for _, name := range orderedAlgorithms(lo.Keys(byAlgo)) {
			runs := byAlgo[name]
			rows = append(rows, Summary{
				DataSize:    key.size,
				StorageType: key.storage,
				Algorithm:   name,
				Runs:        len(runs),
				AvgDuration: lo.SumBy(runs, func(r Result) time.Duration { return r.Duration }) / time.Duration(len(runs)),
				AvgMemory:   lo.SumBy(runs, func(r Result) uint64 { return r.MemoryUsage }) / uint64(len(runs)),
				AllSorted:   lo.EveryBy(runs, func(r Result) bool { return r.Sorted && r.Error == "" }),
			})
		}

		if base, ok := lo.Find(rows, func(s Summary) bool { return s.Algorithm == AlgoStdlib }); ok {
			for i := range rows {
				if rows[i].AvgDuration > 0 {
					rows[i].Speedup = float64(base.AvgDuration) / float64(rows[i].AvgDuration)
				}
			}
		}
		out = append(out, rows...)
	}
	return out
}

// orderedAlgorithms AlgorithmNames 순서, 모르는 이름은 뒤에 이름순
func orderedAlgorithms(names []string) []string {
	known := lo.Filter(AlgorithmNames(), func(n string, _ int) bool { return slices.Contains(names, n) })
	unknown := lo.Without(names, AlgorithmNames()...)
	slices.Sort(unknown)
	return append(known, unknown...)
}

// WriteJSON 보고서를 JSON 으로 저장
func WriteJSON(path string, report Report) error {
	return writeFile(path, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	})
}

// WriteMarkdown 보고서를 마크다운으로 저장
func WriteMarkdown(path string, report Report) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, RenderMarkdown(report))
		return err
	})
}

// RenderMarkdown 실행별 표와 평균 요약 표
func RenderMarkdown(report Report) string {
	var b strings.Builder

	b.WriteString("# 정렬 알고리즘 벤치마크 결과\n\n")
	fmt.Fprintf(&b, "실행 ID: %s\n", report.RunID)
	fmt.Fprintf(&b, "실행 시간: %s\n", report.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "CPU 코어 수: %d\n", report.Host.NumCPU)
	fmt.Fprintf(&b, "GOMAXPROCS: %d\n", report.Host.GOMAXPROCS)
	if len(report.Host.Features) > 0 {
		fmt.Fprintf(&b, "CPU 기능: %s\n", strings.Join(report.Host.Features, ", "))
	}
	fmt.Fprintf(&b, "순차 임계값: %s, 최대 포크 깊이: %d\n\n",
		humanize.Comma(int64(report.Config.SequentialThreshold)), report.Config.MaxDepth)

	groups := lo.GroupBy(report.Results, func(r Result) groupKey {
		return groupKey{size: r.DataSize, storage: r.StorageType}
	})
	keys := lo.Keys(groups)
	slices.SortFunc(keys, func(a, b groupKey) int {
		return cmp.Or(cmp.Compare(a.size, b.size), cmp.Compare(a.storage, b.storage))
	})

	for _, key := range keys {
		fmt.Fprintf(&b, "## %s - %s개 데이터\n\n", storageLabel(key.storage), humanize.Comma(int64(key.size)))
		b.WriteString("| 알고리즘 | 테스트 | 실행시간 | 메모리사용량 | 포크 | 최대 동시 태스크 | 고루틴수 | 검증 |\n")
		b.WriteString("|----------|--------|----------|--------------|------|------------------|----------|------|\n")

		rows := slices.Clone(groups[key])
		order := AlgorithmNames()
		slices.SortStableFunc(rows, func(a, b Result) int {
			return cmp.Or(
				cmp.Compare(algoRank(order, a.Algorithm), algoRank(order, b.Algorithm)),
				cmp.Compare(a.TestRun, b.TestRun))
		})
		for _, r := range rows {
			fmt.Fprintf(&b, "| %s | %d | %v | %s | %d | %d | %d | %s |\n",
				r.Algorithm, r.TestRun, r.Duration, humanize.Bytes(r.MemoryUsage),
				r.Stats.Forks, r.Stats.PeakLiveTasks, r.GoroutineNum, verdict(r))
		}
		b.WriteString("\n")
	}

	b.WriteString("## 요약 통계\n\n")
	b.WriteString("| 데이터 | 저장 | 알고리즘 | 평균 실행시간 | 평균 메모리사용량 | 속도 향상 (stdlib 대비) |\n")
	b.WriteString("|--------|------|----------|---------------|-------------------|-------------------------|\n")
	for _, s := range Summarize(report.Results) {
		speedup := "-"
		if s.Speedup > 0 {
			speedup = fmt.Sprintf("%.2fx", s.Speedup)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %v | %s | %s |\n",
			humanize.Comma(int64(s.DataSize)), storageLabel(s.StorageType), s.Algorithm,
			s.AvgDuration, humanize.Bytes(s.AvgMemory), speedup)
	}
	return b.String()
}

func algoRank(order []string, name string) int {
	if i := slices.Index(order, name); i >= 0 {
		return i
	}
	return len(order)
}

func storageLabel(storage string) string {
	switch storage {
	case StorageMemory:
		return "인메모리"
	case StorageFile:
		return "파일"
	default:
		return storage
	}
}

func verdict(r Result) string {
	switch {
	case r.Error != "":
		return "에러"
	case r.Sorted:
		return "ok"
	default:
		return "실패"
	}
}

// writeFile 버퍼링된 쓰기
func writeFile(path string, fn func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer file.Close()

	writer := bufio.NewWriterSize(file, 32*1024)
	if err := fn(writer); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "flushing %s", path)
	}
	return file.Close()
}
