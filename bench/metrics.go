package bench

import (
	"bufio"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics 벤치마크 결과를 프로메테우스 지표로 모은다.
// 끝나면 WriteTextfile 로 node_exporter textfile 형식 파일을 남긴다.
type Metrics struct {
	registry *prometheus.Registry

	duration     *prometheus.HistogramVec
	runs         *prometheus.CounterVec
	forks        *prometheus.CounterVec
	peakTasks    *prometheus.GaugeVec
	allocatedMem *prometheus.CounterVec

	peaks map[string]int64
}

// NewMetrics 전용 레지스트리에 지표를 등록한다.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		peaks:    make(map[string]int64),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "psort",
			Name:      "sort_duration_seconds",
			Help:      "Wall time of a single sort run.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{"algorithm", "storage"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "psort",
			Name:      "runs_total",
			Help:      "Sort runs by verification outcome.",
		}, []string{"algorithm", "outcome"}),
		forks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "psort",
			Name:      "forks_total",
			Help:      "Tasks spawned by the parallel sorter.",
		}, []string{"algorithm"}),
		peakTasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "psort",
			Name:      "peak_live_tasks",
			Help:      "Highest number of concurrently live tasks seen in a run.",
		}, []string{"algorithm"}),
		allocatedMem: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "psort",
			Name:      "allocated_bytes_total",
			Help:      "Heap bytes allocated while sorting.",
		}, []string{"algorithm"}),
	}
	m.registry.MustRegister(m.duration, m.runs, m.forks, m.peakTasks, m.allocatedMem)
	return m
}

// Observe 결과 하나 반영. Runner 한 고루틴에서만 호출한다.
func (m *Metrics) Observe(r Result) {
	m.duration.WithLabelValues(r.Algorithm, r.StorageType).Observe(r.Duration.Seconds())

	outcome := "ok"
	switch {
	case r.Error != "":
		outcome = "error"
	case !r.Sorted:
		outcome = "unsorted"
	}
	m.runs.WithLabelValues(r.Algorithm, outcome).Inc()
	m.forks.WithLabelValues(r.Algorithm).Add(float64(r.Stats.Forks))
	m.allocatedMem.WithLabelValues(r.Algorithm).Add(float64(r.MemoryUsage))

	if r.Stats.PeakLiveTasks > m.peaks[r.Algorithm] {
		m.peaks[r.Algorithm] = r.Stats.PeakLiveTasks
		m.peakTasks.WithLabelValues(r.Algorithm).Set(float64(r.Stats.PeakLiveTasks))
	}
}

// Registry 테스트나 HTTP 노출용
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile 프로메테우스 텍스트 형식으로 저장
func (m *Metrics) WriteTextfile(path string) error {
	families, err := m.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(writer, mf); err != nil {
			return errors.Wrapf(err, "encoding %s", mf.GetName())
		}
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return file.Close()
}
