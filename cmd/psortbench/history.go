package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/rlaau/S_A_Benchmark/bench"
	"github.com/rlaau/S_A_Benchmark/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "저장된 벤치마크 결과 요약",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runID, _ := cmd.Flags().GetString("run")
			return a.printHistory(cmd.OutOrStdout(), runID)
		},
	}
	cmd.Flags().String("run", "", "이 실행 ID 만 출력")
	return cmd
}

func (a *app) printHistory(out io.Writer, runID string) (err error) {
	history, err := store.Open(a.cfg.Store.Kind, a.cfg.Store.Path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.CombineErrors(err, history.Close())
	}()

	entries, err := history.List()
	if err != nil {
		return errors.Wrap(err, "listing history")
	}
	results, err := bench.DecodeResults(entries)
	if err != nil {
		return err
	}
	if runID != "" {
		results = lo.Filter(results, func(r bench.Result, _ int) bool { return r.RunID == runID })
	}

	// 실행 ID 는 시간순이라 저장 순서 그대로 출력한다.
	runIDs := lo.Uniq(lo.Map(results, func(r bench.Result, _ int) string { return r.RunID }))
	byRun := lo.GroupBy(results, func(r bench.Result) string { return r.RunID })

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, id := range runIDs {
		fmt.Fprintf(w, "run %s\n", id)
		fmt.Fprintln(w, "SIZE\tSTORAGE\tALGORITHM\tRUNS\tAVG\tALLOC\tSPEEDUP\tSORTED")
		for _, s := range bench.Summarize(byRun[id]) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\t%s\t%.2f\t%t\n",
				humanize.Comma(int64(s.DataSize)), s.StorageType, s.Algorithm, s.Runs,
				s.AvgDuration, humanize.Bytes(s.AvgMemory), s.Speedup, s.AllSorted)
		}
		fmt.Fprintln(w)
	}
	if len(runIDs) == 0 {
		fmt.Fprintln(w, "저장된 결과 없음")
	}
	return w.Flush()
}
