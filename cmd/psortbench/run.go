package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rlaau/S_A_Benchmark/bench"
	"github.com/rlaau/S_A_Benchmark/store"
)

// 보고서 파일 이름
const (
	resultsJSON     = "benchmark_results.json"
	resultsMarkdown = "benchmark_results.md"
	metricsTextfile = "benchmark_metrics.prom"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "벤치마크 실행 후 보고서와 이력 저장",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBenchmark(cmd)
		},
	}

	f := cmd.Flags()
	bo := bench.DefaultOptions()
	f.IntSlice("sizes", bo.Sizes, "입력 크기 목록")
	f.Int("runs", bo.Runs, "크기/알고리즘별 반복 횟수")
	f.Int("min", bo.Min, "난수 최솟값")
	f.Int("max", bo.Max, "난수 최댓값")
	f.Uint64("seed", bo.Seed, "난수 시드")
	f.StringSlice("algorithms", bo.Algorithms, "실행할 알고리즘")
	f.Int("file-mode-min", bo.FileModeMin, "이 크기 이상은 파일로 쓰고 매번 다시 읽음 (0 이면 끔)")
	f.Duration("settle", bo.Settle, "실행 사이 대기 시간")
	cobra.CheckErr(bindFlags(a.v, f, map[string]string{
		"sizes":         "bench.sizes",
		"runs":          "bench.runs",
		"min":           "bench.min",
		"max":           "bench.max",
		"seed":          "bench.seed",
		"algorithms":    "bench.algorithms",
		"file-mode-min": "bench.file_mode_min",
		"settle":        "bench.settle",
	}))
	return cmd
}

func (a *app) runBenchmark(cmd *cobra.Command) (err error) {
	cfg := a.cfg
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", cfg.OutDir)
	}
	if cfg.Bench.WorkDir == "" {
		cfg.Bench.WorkDir = cfg.OutDir
	}

	history, err := store.Open(cfg.Store.Kind, cfg.Store.Path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, history.Close())
	}()

	host := bench.CollectHostInfo()
	a.log.Info("벤치마크 시작",
		zap.Int("num_cpu", host.NumCPU),
		zap.Int("gomaxprocs", host.GOMAXPROCS),
		zap.Strings("cpu_features", host.Features),
		zap.Int("threshold", cfg.Sort.SequentialThreshold),
		zap.Int("max_depth", cfg.Sort.MaxDepth),
		zap.String("store", cfg.Store.Kind))

	metrics := bench.NewMetrics()
	runner, err := bench.NewRunner(cfg.Bench, cfg.Sort, a.log, metrics, history)
	if err != nil {
		return err
	}

	results, runErr := runner.Run(cmd.Context())
	if runErr != nil && !errors.Is(runErr, bench.ErrVerification) {
		// 취소나 입출력 에러여도 모인 결과까지는 보고서로 남긴다.
		a.log.Warn("벤치마크 중단", zap.Error(runErr))
	}

	report := bench.Report{
		RunID:     runner.RunID(),
		CreatedAt: time.Now(),
		Host:      host,
		Config:    cfg.Sort,
		Options:   cfg.Bench,
		Results:   results,
	}
	if err := writeReports(cfg.OutDir, report, metrics); err != nil {
		return errors.CombineErrors(runErr, err)
	}

	for _, s := range bench.Summarize(results) {
		a.log.Info("요약",
			zap.Int("size", s.DataSize),
			zap.String("storage", s.StorageType),
			zap.String("algorithm", s.Algorithm),
			zap.Duration("avg", s.AvgDuration),
			zap.Float64("speedup", s.Speedup),
			zap.Bool("sorted", s.AllSorted))
	}
	a.log.Info("벤치마크 완료", zap.String("run_id", runner.RunID()), zap.Int("results", len(results)))
	return runErr
}

func writeReports(dir string, report bench.Report, metrics *bench.Metrics) error {
	if err := bench.WriteJSON(filepath.Join(dir, resultsJSON), report); err != nil {
		return err
	}
	if err := bench.WriteMarkdown(filepath.Join(dir, resultsMarkdown), report); err != nil {
		return err
	}
	return metrics.WriteTextfile(filepath.Join(dir, metricsTextfile))
}
