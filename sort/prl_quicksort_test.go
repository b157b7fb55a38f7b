package sort

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func randomInts(seed uint64, n, lo, hi int) []int {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := make([]int, n)
	for i := range data {
		data[i] = lo + rng.IntN(hi-lo+1)
	}
	return data
}

func descending(n int) []int {
	data := make([]int, n)
	for i := range data {
		data[i] = n - i
	}
	return data
}

// requireSortedPermutation 결과가 정렬되어 있고 입력과 같은 멀티셋인지 확인
func requireSortedPermutation(t *testing.T, input, output []int) {
	t.Helper()
	require.True(t, IsSortedOrdered(output), "output not sorted")
	want := slices.Clone(input)
	slices.Sort(want)
	require.Equal(t, want, output)
}

func TestParallelSortScenarioA(t *testing.T) {
	data := []int{5, 3, 8, 1, 9, 2}
	err := ParallelSortOrdered(data, Config{SequentialThreshold: 0, MaxDepth: 4})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 5, 8, 9}, data)
}

func TestParallelSortScenarioB(t *testing.T) {
	input := randomInts(1, 20000, 1, 1000000)
	data := slices.Clone(input)

	stats, err := ParallelSortStats(data, Ordered[int](), ReferenceConfig())
	require.NoError(t, err)
	requireSortedPermutation(t, input, data)
	assert.LessOrEqual(t, stats.PeakLiveTasks, int64(ReferenceConfig().TaskBudget()))
}

func TestParallelSortScenarioC(t *testing.T) {
	for _, cfg := range []Config{
		ReferenceConfig(),
		{SequentialThreshold: 0, MaxDepth: 4},
	} {
		data := slices.Repeat([]int{7}, 5000)
		require.NoError(t, ParallelSortOrdered(data, cfg))
		assert.Equal(t, slices.Repeat([]int{7}, 5000), data)
	}
}

func TestParallelSortScenarioD(t *testing.T) {
	for _, cfg := range []Config{
		ReferenceConfig(),
		{SequentialThreshold: 64, MaxDepth: 6},
	} {
		data := descending(100000)
		require.NoError(t, ParallelSortOrdered(data, cfg))
		for i := range data {
			if data[i] != i+1 {
				t.Fatalf("data[%d] = %d, want %d", i, data[i], i+1)
			}
		}
	}
}

func TestParallelSortProperties(t *testing.T) {
	configs := []Config{
		{SequentialThreshold: 0, MaxDepth: 0},
		{SequentialThreshold: 0, MaxDepth: 1},
		{SequentialThreshold: 0, MaxDepth: 5},
		{SequentialThreshold: 16, MaxDepth: 3},
		{SequentialThreshold: 1000, MaxDepth: 8},
		ReferenceConfig(),
		DefaultConfig(),
	}
	sizes := []int{0, 1, 2, 3, 7, 100, 1001, 30000}

	for _, cfg := range configs {
		for _, n := range sizes {
			input := randomInts(uint64(n)+7, n, -50, 50)
			data := slices.Clone(input)
			require.NoError(t, ParallelSortOrdered(data, cfg), "cfg=%+v n=%d", cfg, n)
			requireSortedPermutation(t, input, data)
		}
	}
}

func TestParallelSortIdempotent(t *testing.T) {
	input := randomInts(3, 50000, 0, 1<<30)
	slices.Sort(input)
	data := slices.Clone(input)

	require.NoError(t, ParallelSortOrdered(data, Config{SequentialThreshold: 100, MaxDepth: 4}))
	assert.Equal(t, input, data)
}

type keyed struct {
	key int
	id  int
}

func byKey(a, b keyed) int { return a.key - b.key }

func TestParallelSortMatchesSequentialBelowThreshold(t *testing.T) {
	const threshold = 2000
	for _, n := range []int{0, 1, 2, 10, 500, threshold} {
		input := make([]keyed, n)
		for i, v := range randomInts(uint64(n), n, 0, 20) {
			input[i] = keyed{key: v, id: i}
		}

		seq := slices.Clone(input)
		par := slices.Clone(input)
		require.NoError(t, SequentialSort(seq, Infallible(byKey)))
		stats, err := ParallelSortStats(par, Infallible(byKey), Config{SequentialThreshold: threshold, MaxDepth: 4})
		require.NoError(t, err)

		assert.Equal(t, seq, par, "n=%d", n)
		assert.Zero(t, stats.Forks)
	}
}

func TestParallelSortTaskBudget(t *testing.T) {
	input := randomInts(11, 200000, 0, 1000000)

	for depth := 0; depth <= 6; depth++ {
		cfg := Config{SequentialThreshold: 0, MaxDepth: depth}
		data := slices.Clone(input)

		stats, err := ParallelSortStats(data, Ordered[int](), cfg)
		require.NoError(t, err)
		require.True(t, IsSortedOrdered(data))

		budget := int64(cfg.TaskBudget())
		assert.LessOrEqual(t, stats.PeakLiveTasks, budget, "depth=%d", depth)
		assert.LessOrEqual(t, stats.Forks, budget, "depth=%d", depth)
		assert.LessOrEqual(t, stats.DeepestFork, depth)
		assert.Zero(t, stats.InlineFallbacks)
		if depth == 0 {
			assert.Zero(t, stats.Forks)
		} else {
			// 무작위 입력이라 모든 단계에서 구간이 비지 않는다.
			assert.Equal(t, budget, stats.Forks, "depth=%d", depth)
		}
	}
}

func TestTaskSlotsExhausted(t *testing.T) {
	s := newTaskSlots(2)
	require.True(t, s.tryAcquire())
	require.True(t, s.tryAcquire())
	require.False(t, s.tryAcquire())
	s.release()
	require.True(t, s.tryAcquire())

	assert.Equal(t, int64(2), s.peak.Load())
	assert.Equal(t, int64(3), s.spawned.Load())
}

var errBoom = errors.New("boom")

func TestParallelSortComparatorFailureInForkedBranch(t *testing.T) {
	defer goleak.VerifyNone(t)

	// 음수끼리 비교할 때만 실패한다. 첫 피벗은 30 이라 음수는 모두 왼쪽(포크된 쪽)으로 간다.
	data := []int{30, -1, 50, 20, -2, 60, 70, 40}
	compare := func(a, b int) (int, error) {
		if a < 0 && b < 0 {
			return 0, errBoom
		}
		return a - b, nil
	}

	stats, err := ParallelSortStats(data, compare, Config{SequentialThreshold: 0, MaxDepth: 3})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrComparator)
	require.ErrorIs(t, err, errBoom)
	assert.GreaterOrEqual(t, stats.Forks, int64(1))

	// 원소는 사라지지 않는다.
	requireSortedPermutation(t, []int{30, -1, 50, 20, -2, 60, 70, 40}, slices.Sorted(slices.Values(data)))
}

func TestParallelSortComparatorFailureInInlineBranch(t *testing.T) {
	defer goleak.VerifyNone(t)

	// 1000 보다 큰 값끼리 비교할 때만 실패한다. 이 값들은 오른쪽(현재 고루틴) 구간으로 간다.
	data := []int{30, 1001, 50, 20, 1002, 60, 10, 40}
	compare := func(a, b int) (int, error) {
		if a > 1000 && b > 1000 {
			return 0, errBoom
		}
		return a - b, nil
	}

	err := ParallelSort(data, compare, Config{SequentialThreshold: 0, MaxDepth: 3})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrComparator)
}

func TestParallelSortComparatorFailureEverywhere(t *testing.T) {
	defer goleak.VerifyNone(t)

	// 첫 파티션 이후 어디서든 실패할 수 있다.
	var calls int
	input := randomInts(5, 100000, 0, 1000)
	limit := len(input) + 10
	compare := func(a, b int) (int, error) {
		calls++
		if calls > limit {
			return 0, errBoom
		}
		return a - b, nil
	}

	// calls 를 여러 고루틴이 쓰지 않도록 깊이 0 에서 먼저 검증한다.
	err := ParallelSort(slices.Clone(input), compare, Config{SequentialThreshold: 0, MaxDepth: 0})
	require.ErrorIs(t, err, ErrComparator)

	failing := func(a, b int) (int, error) {
		if a == 999 || b == 999 {
			return 0, errBoom
		}
		return a - b, nil
	}
	err = ParallelSort(slices.Clone(input), failing, Config{SequentialThreshold: 0, MaxDepth: 4})
	require.ErrorIs(t, err, ErrComparator)
}

func TestParallelSortComparatorPanic(t *testing.T) {
	defer goleak.VerifyNone(t)

	data := randomInts(9, 10000, 0, 100)
	compare := func(a, b int) (int, error) {
		if a == 42 && b != 42 {
			panic("bad element")
		}
		return a - b, nil
	}

	err := ParallelSort(data, compare, Config{SequentialThreshold: 10, MaxDepth: 4})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrComparator)
	assert.Contains(t, err.Error(), "bad element")
}

func TestParallelSortInvalidConfig(t *testing.T) {
	data := []int{3, 2, 1}
	for _, cfg := range []Config{
		{SequentialThreshold: -1, MaxDepth: 2},
		{SequentialThreshold: 10, MaxDepth: -1},
	} {
		err := ParallelSortOrdered(data, cfg)
		require.ErrorIs(t, err, ErrInvalidConfig, "cfg=%+v", cfg)
	}
	// 검증 실패 시 데이터는 건드리지 않는다.
	assert.Equal(t, []int{3, 2, 1}, data)

	require.Error(t, ParallelSort(data, nil, ReferenceConfig()))
}

func TestParallelSortCapsMaxDepth(t *testing.T) {
	defer goleak.VerifyNone(t)

	input := randomInts(11, 50000, 0, 1<<20)
	data := slices.Clone(input)
	stats, err := ParallelSortStats(data, Ordered[int](), Config{SequentialThreshold: 0, MaxDepth: 1000})
	require.NoError(t, err)
	requireSortedPermutation(t, input, data)
	assert.LessOrEqual(t, stats.DeepestFork, MaxDepthLimit)
}

func TestSortRange(t *testing.T) {
	data := []int{9, 8, 7, 6, 5, 4, 3, 2, 1}
	cfg := Config{SequentialThreshold: 0, MaxDepth: 2}

	require.NoError(t, SortRange(data, 2, 6, Ordered[int](), cfg))
	assert.Equal(t, []int{9, 8, 3, 4, 5, 6, 7, 2, 1}, data)

	// left > right 는 빈 구간
	require.NoError(t, SortRange(data, 5, 4, Ordered[int](), cfg))
	assert.Equal(t, []int{9, 8, 3, 4, 5, 6, 7, 2, 1}, data)

	require.ErrorIs(t, SortRange(data, -1, 3, Ordered[int](), cfg), ErrInvalidRange)
	require.ErrorIs(t, SortRange(data, 0, len(data), Ordered[int](), cfg), ErrInvalidRange)
}

func BenchmarkParallelSort(b *testing.B) {
	input := randomInts(42, 1_000_000, 1, 1000000)
	data := make([]int, len(input))

	configs := map[string]Config{
		"depth0": {SequentialThreshold: DefaultSequentialThreshold, MaxDepth: 0},
		"ref":    ReferenceConfig(),
		"auto":   DefaultConfig(),
	}
	for name, cfg := range configs {
		b.Run(name, func(b *testing.B) {
			for b.Loop() {
				copy(data, input)
				if err := ParallelSortOrdered(data, cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
	b.Run("stdlib", func(b *testing.B) {
		for b.Loop() {
			copy(data, input)
			slices.Sort(data)
		}
	})
}
