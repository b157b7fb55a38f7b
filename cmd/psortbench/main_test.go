package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlaau/S_A_Benchmark/bench"
	"github.com/rlaau/S_A_Benchmark/sort"
	"github.com/rlaau/S_A_Benchmark/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newViper(), "")
	require.NoError(t, err)

	assert.Equal(t, sort.DefaultConfig(), cfg.Sort)
	assert.Equal(t, bench.DefaultOptions().Sizes, cfg.Bench.Sizes)
	assert.Equal(t, bench.DefaultOptions().Settle, cfg.Bench.Settle)
	assert.Equal(t, store.KindBbolt, cfg.Store.Kind)
	assert.Equal(t, filepath.Join(".", "psort_history.db"), cfg.Store.Path)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psort.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sort:
  sequential_threshold: 500
  max_depth: 3
bench:
  sizes: [10, 20]
  runs: 2
store:
  kind: pebble
out_dir: /tmp/psort
`), 0o644))

	t.Setenv("PSORT_SORT_MAX_DEPTH", "5")

	cfg, err := loadConfig(newViper(), path)
	require.NoError(t, err)
	assert.Equal(t, sort.Config{SequentialThreshold: 500, MaxDepth: 5}, cfg.Sort)
	assert.Equal(t, []int{10, 20}, cfg.Bench.Sizes)
	assert.Equal(t, 2, cfg.Bench.Runs)
	assert.Equal(t, filepath.Join("/tmp/psort", "psort_history_pebble"), cfg.Store.Path)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("PSORT_SORT_MAX_DEPTH", "-2")
	_, err := loadConfig(newViper(), "")
	require.ErrorIs(t, err, sort.ErrInvalidConfig)
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json", ""} {
		log, err := newLogger(LogConfig{Level: "debug", Format: format})
		require.NoError(t, err)
		require.NotNil(t, log)
	}
	_, err := newLogger(LogConfig{Level: "loud"})
	require.Error(t, err)
	_, err = newLogger(LogConfig{Level: "info", Format: "xml"})
	require.Error(t, err)
}

func TestRunAndHistory(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t,
		"--out-dir", dir,
		"--threshold", "1000",
		"--max-depth", "2",
		"run",
		"--sizes", "0,5000,20000",
		"--runs", "1",
		"--file-mode-min", "20000",
		"--settle", "0s",
	)
	require.NoError(t, err)

	for _, name := range []string{resultsJSON, resultsMarkdown, metricsTextfile} {
		require.FileExists(t, filepath.Join(dir, name))
	}

	raw, err := os.ReadFile(filepath.Join(dir, resultsJSON))
	require.NoError(t, err)
	var report bench.Report
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, sort.Config{SequentialThreshold: 1000, MaxDepth: 2}, report.Config)
	require.Len(t, report.Results, 3*len(bench.AlgorithmNames()))
	for _, r := range report.Results {
		assert.True(t, r.Sorted)
	}

	out, err := execute(t, "--out-dir", dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "run "+report.RunID)
	assert.Contains(t, out, "20,000")
	assert.Contains(t, out, bench.AlgoParallel)
}

func TestHistoryEmpty(t *testing.T) {
	out, err := execute(t, "--out-dir", t.TempDir(), "--store", "memory", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "저장된 결과 없음")
}

func TestSortCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	output := filepath.Join(dir, "out.txt")

	data := bench.RandomInts(bench.NewRand(3), 30000, -1000, 1000)
	require.NoError(t, bench.WriteInts(input, data))

	_, err := execute(t, "--threshold", "100", "--max-depth", "3", "sort", input, "-o", output)
	require.NoError(t, err)

	got, err := bench.ReadInts(output)
	require.NoError(t, err)
	assert.Equal(t, slices.Sorted(slices.Values(data)), got)

	// 입력은 그대로
	orig, err := bench.ReadInts(input)
	require.NoError(t, err)
	assert.Equal(t, data, orig)

	_, err = execute(t, "sort", filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

func TestRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "--max-depth=-1", "history")
	require.ErrorIs(t, err, sort.ErrInvalidConfig)

	_, err = execute(t, "--threshold=-3", "history")
	require.ErrorIs(t, err, sort.ErrInvalidConfig)

	_, err = execute(t, "--out-dir", t.TempDir(), "--store", "leveldb", "history")
	require.ErrorIs(t, err, store.ErrUnknownKind)
}
