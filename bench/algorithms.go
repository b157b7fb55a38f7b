package bench

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/rlaau/S_A_Benchmark/sort"
)

// 알고리즘 이름
const (
	AlgoStdlib            = "stdlib"
	AlgoSequential        = "sequential"
	AlgoParallel          = "parallel"
	AlgoMergeSort         = "mergesort"
	AlgoParallelMergeSort = "parallel_mergesort"
)

// SortFunc data 를 제자리 정렬한다. 병렬 퀵소트만 Stats 를 채운다.
type SortFunc func(data []int, cfg sort.Config) (sort.Stats, error)

var algorithms = map[string]SortFunc{
	AlgoStdlib: func(data []int, _ sort.Config) (sort.Stats, error) {
		slices.Sort(data)
		return sort.Stats{}, nil
	},
	AlgoSequential: func(data []int, _ sort.Config) (sort.Stats, error) {
		return sort.Stats{}, sort.SequentialSort(data, sort.Ordered[int]())
	},
	AlgoParallel: func(data []int, cfg sort.Config) (sort.Stats, error) {
		return sort.ParallelSortStats(data, sort.Ordered[int](), cfg)
	},
	AlgoMergeSort: func(data []int, _ sort.Config) (sort.Stats, error) {
		copy(data, mergeSort(data))
		return sort.Stats{}, nil
	},
	AlgoParallelMergeSort: func(data []int, cfg sort.Config) (sort.Stats, error) {
		copy(data, parallelMergeSort(data, cfg.SequentialThreshold, cfg.MaxDepth))
		return sort.Stats{}, nil
	},
}

// AlgorithmNames 보고서 출력 순서. 기준(stdlib)이 맨 앞이다.
func AlgorithmNames() []string {
	return []string{AlgoStdlib, AlgoSequential, AlgoParallel, AlgoMergeSort, AlgoParallelMergeSort}
}

// Lookup 이름으로 정렬 함수를 찾는다.
func Lookup(name string) (SortFunc, error) {
	fn, ok := algorithms[name]
	if !ok {
		return nil, errors.Newf("unknown algorithm %q (known: %v)", name, AlgorithmNames())
	}
	return fn, nil
}
