// Package bench 는 병렬 퀵소트를 기준 정렬(slices.Sort) 및 비교 알고리즘과 함께 돌려
// 시간, 메모리, 포크 통계를 재고 결과를 검증한다.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/rlaau/S_A_Benchmark/sort"
	"github.com/rlaau/S_A_Benchmark/store"
)

// 입력 저장 방식
const (
	StorageMemory = "memory"
	StorageFile   = "file"
)

// ErrVerification 정렬 결과가 틀린 실행이 있었음
var ErrVerification = errors.New("sort verification failed")

// Options 벤치마크 설정
type Options struct {
	Sizes      []int    `mapstructure:"sizes" json:"sizes"`
	Runs       int      `mapstructure:"runs" json:"runs"`
	Min        int      `mapstructure:"min" json:"min"`
	Max        int      `mapstructure:"max" json:"max"`
	Seed       uint64   `mapstructure:"seed" json:"seed"`
	Algorithms []string `mapstructure:"algorithms" json:"algorithms"`
	// FileModeMin 이 크기 이상은 매 실행마다 파일에서 다시 읽는다. 0 이면 사용 안 함.
	FileModeMin int `mapstructure:"file_mode_min" json:"file_mode_min"`
	// WorkDir 입력 파일을 둘 디렉터리. 비어 있으면 os.TempDir().
	WorkDir string `mapstructure:"work_dir" json:"work_dir"`
	// Settle 실행 사이 대기 시간
	Settle time.Duration `mapstructure:"settle" json:"settle"`
}

// DefaultOptions 원래 벤치마크와 같은 입력 (값 범위 [1, 1000000], 5회)
func DefaultOptions() Options {
	return Options{
		Sizes:       []int{100_000, 1_000_000, 10_000_000},
		Runs:        5,
		Min:         1,
		Max:         1_000_000,
		Seed:        42,
		Algorithms:  AlgorithmNames(),
		FileModeMin: 0,
		Settle:      50 * time.Millisecond,
	}
}

// Validate 설정 검사
func (o Options) Validate() error {
	if len(o.Sizes) == 0 {
		return errors.New("no input sizes")
	}
	for _, n := range o.Sizes {
		if n < 0 {
			return errors.Newf("negative input size %d", n)
		}
	}
	if o.Runs <= 0 {
		return errors.Newf("runs must be positive, got %d", o.Runs)
	}
	if o.Min > o.Max {
		return errors.Newf("min %d > max %d", o.Min, o.Max)
	}
	if len(o.Algorithms) == 0 {
		return errors.New("no algorithms")
	}
	for _, name := range o.Algorithms {
		if _, err := Lookup(name); err != nil {
			return err
		}
	}
	return nil
}

// Result 실행 한 번의 결과
type Result struct {
	RunID        string        `json:"run_id"`
	Algorithm    string        `json:"algorithm"`
	DataSize     int           `json:"data_size"`
	StorageType  string        `json:"storage_type"`
	TestRun      int           `json:"test_run"`
	Duration     time.Duration `json:"duration"`
	MemoryUsage  uint64        `json:"memory_usage_bytes"`
	GoroutineNum int           `json:"goroutine_num"`
	Sorted       bool          `json:"sorted"`
	Error        string        `json:"error,omitempty"`
	Stats        sort.Stats    `json:"stats"`
	Config       sort.Config   `json:"config"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Runner 벤치마크 실행기
type Runner struct {
	opts    Options
	cfg     sort.Config
	log     *zap.Logger
	metrics *Metrics
	history store.Store
	runID   string
	seq     uint64
	check   sort.CompareFunc[int] // 결과 검증용 비교 함수
}

// NewRunner metrics, history 는 nil 이어도 된다.
func NewRunner(opts Options, cfg sort.Config, log *zap.Logger, metrics *Metrics, history store.Store) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "bench options")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	runID := NewRunID(time.Now())
	return &Runner{
		opts:    opts,
		cfg:     cfg,
		log:     log.With(zap.String("run_id", runID)),
		metrics: metrics,
		history: history,
		runID:   runID,
		check:   sort.Ordered[int](),
	}, nil
}

// NewRunID 시간순으로 정렬되는 실행 ID
func NewRunID(now time.Time) string {
	return fmt.Sprintf("%s-%06d", now.UTC().Format("20060102T150405"), now.Nanosecond()/1000)
}

// RunID 이번 실행 ID
func (r *Runner) RunID() string { return r.runID }

// Run 모든 크기 × 알고리즘 × 반복을 돌린다. ctx 는 실행 사이에서만 확인한다
// (정렬 자체는 취소할 수 없다). 검증에 실패한 실행이 있으면 결과와 함께
// ErrVerification 을 돌려준다.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	rng := NewRand(r.opts.Seed)
	var results []Result
	failed := 0

	for _, size := range r.opts.Sizes {
		data := RandomInts(rng, size, r.opts.Min, r.opts.Max)
		want := slices.Clone(data)
		slices.Sort(want)

		storage, load, cleanup, err := r.prepareInput(data)
		if err != nil {
			return results, err
		}

		r.log.Info("입력 생성",
			zap.String("size", humanize.Comma(int64(size))),
			zap.String("storage", storage))

		for _, name := range r.opts.Algorithms {
			fn, _ := Lookup(name)
			for run := 1; run <= r.opts.Runs; run++ {
				if err := ctx.Err(); err != nil {
					cleanup()
					return results, err
				}

				input, err := load()
				if err != nil {
					cleanup()
					return results, err
				}

				res := r.runOnce(name, fn, input, want)
				res.StorageType = storage
				res.TestRun = run
				if !res.Sorted || res.Error != "" {
					failed++
				}
				if err := r.record(res); err != nil {
					cleanup()
					return results, err
				}
				results = append(results, res)

				if r.opts.Settle > 0 {
					time.Sleep(r.opts.Settle)
				}
			}
		}
		cleanup()
	}

	if failed > 0 {
		return results, errors.Wrapf(ErrVerification, "%d of %d runs produced wrong output", failed, len(results))
	}
	return results, nil
}

// prepareInput 크기가 FileModeMin 이상이면 입력을 파일로 쓰고 매 실행마다 다시 읽는다.
func (r *Runner) prepareInput(data []int) (string, func() ([]int, error), func(), error) {
	if r.opts.FileModeMin <= 0 || len(data) < r.opts.FileModeMin {
		load := func() ([]int, error) { return slices.Clone(data), nil }
		return StorageMemory, load, func() {}, nil
	}

	dir := r.opts.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("psort_input_%s_%d.txt", r.runID, len(data)))
	if err := WriteInts(path, data); err != nil {
		return "", nil, nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil {
			r.log.Warn("입력 파일 삭제 실패", zap.String("path", path), zap.Error(err))
		}
	}
	load := func() ([]int, error) {
		input, err := ReadInts(path)
		if err != nil {
			return nil, err
		}
		if len(input) != len(data) {
			return nil, errors.Newf("%s: read %d values, wrote %d", path, len(input), len(data))
		}
		return input, nil
	}
	return StorageFile, load, cleanup, nil
}

func (r *Runner) runOnce(name string, fn SortFunc, input, want []int) Result {
	res := Result{
		RunID:        r.runID,
		Algorithm:    name,
		DataSize:     len(input),
		GoroutineNum: runtime.NumGoroutine(),
		Config:       r.cfg,
		Timestamp:    time.Now(),
	}

	m := startMeasure()
	stats, err := fn(input, r.cfg)
	res.Duration, res.MemoryUsage = m.stop()
	res.Stats = stats

	if err != nil {
		res.Error = err.Error()
		r.log.Error("정렬 실패", zap.String("algorithm", name), zap.Error(err))
		return res
	}

	sorted, err := sort.IsSorted(input, r.check)
	if err != nil {
		res.Error = errors.Wrap(err, "verifying output").Error()
		r.log.Error("검증 실패", zap.String("algorithm", name), zap.Error(err))
		return res
	}
	res.Sorted = sorted && slices.Equal(input, want)
	if !res.Sorted {
		r.log.Error("검증 실패",
			zap.String("algorithm", name),
			zap.Int("size", len(input)),
			zap.Bool("ascending", sorted))
	}
	return res
}

// record 지표와 이력 저장소에 반영
func (r *Runner) record(res Result) error {
	r.log.Info("실행 완료",
		zap.String("algorithm", res.Algorithm),
		zap.Int("size", res.DataSize),
		zap.Int("run", res.TestRun),
		zap.Duration("duration", res.Duration),
		zap.String("allocated", humanize.Bytes(res.MemoryUsage)),
		zap.Int64("forks", res.Stats.Forks),
		zap.Bool("sorted", res.Sorted))

	if r.metrics != nil {
		r.metrics.Observe(res)
	}
	if r.history == nil {
		return nil
	}

	value, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}
	r.seq++
	return errors.Wrap(r.history.Put(r.runID, r.seq, value), "storing result")
}

// measure 시간과 힙 할당량 측정
type measure struct {
	start    time.Time
	startMem runtime.MemStats
}

func startMeasure() *measure {
	runtime.GC() // 이전 실행의 가비지 정리

	m := &measure{}
	runtime.ReadMemStats(&m.startMem)
	m.start = time.Now()
	return m
}

func (m *measure) stop() (time.Duration, uint64) {
	d := time.Since(m.start)

	var end runtime.MemStats
	runtime.ReadMemStats(&end)
	return d, end.TotalAlloc - m.startMem.TotalAlloc
}

// DecodeResults 이력 저장소 항목을 Result 로 복원
func DecodeResults(entries []store.Entry) ([]Result, error) {
	out := make([]Result, 0, len(entries))
	for _, e := range entries {
		var res Result
		if err := json.Unmarshal(e.Value, &res); err != nil {
			return nil, errors.Wrapf(err, "decoding %s/%d", e.RunID, e.Seq)
		}
		out = append(out, res)
	}
	return out, nil
}
