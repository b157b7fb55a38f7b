package main

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rlaau/S_A_Benchmark/bench"
	"github.com/rlaau/S_A_Benchmark/sort"
)

func newSortCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <input>",
		Short: "정수 파일(한 줄에 하나)을 병렬 퀵소트로 정렬",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = args[0]
			}
			return a.sortFile(args[0], output)
		},
	}
	cmd.Flags().StringP("output", "o", "", "출력 파일 (기본값은 입력 파일 덮어쓰기)")
	return cmd
}

func (a *app) sortFile(input, output string) error {
	data, err := bench.ReadInts(input)
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := sort.ParallelSortStats(data, sort.Ordered[int](), a.cfg.Sort)
	elapsed := time.Since(start)
	if err != nil {
		return errors.Wrapf(err, "sorting %s", input)
	}
	if !sort.IsSortedOrdered(data) {
		return errors.AssertionFailedf("%s: output not sorted", input)
	}

	if err := bench.WriteInts(output, data); err != nil {
		return err
	}
	a.log.Info("정렬 완료",
		zap.String("input", input),
		zap.String("output", output),
		zap.String("count", humanize.Comma(int64(len(data)))),
		zap.Duration("duration", elapsed),
		zap.Int64("forks", stats.Forks),
		zap.Int64("sequential_runs", stats.SequentialRuns),
		zap.Int64("peak_live_tasks", stats.PeakLiveTasks),
		zap.Int("deepest_fork", stats.DeepestFork))
	return nil
}
