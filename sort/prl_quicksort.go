package sort

import (
	"cmp"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// ParallelSort 병렬 퀵소트.
// 파티션 후 왼쪽 구간은 새 고루틴에서, 오른쪽 구간은 현재 고루틴에서 정렬하고
// 두 쪽이 모두 끝날 때까지 기다린다. 구간 크기가 cfg.SequentialThreshold 이하이거나
// 포크 깊이가 cfg.MaxDepth 에 닿으면 순차 정렬로 넘긴다.
//
// 두 구간은 같은 배열의 겹치지 않는 서브슬라이스이므로 잠금이 필요 없다.
// 비교 함수 에러는 모든 태스크를 join 한 뒤 호출자에게 그대로 전달된다.
func ParallelSort[T any](data []T, compare CompareFunc[T], cfg Config) error {
	_, err := ParallelSortStats(data, compare, cfg)
	return err
}

// ParallelSortOrdered cmp.Ordered 타입용 ParallelSort
func ParallelSortOrdered[T cmp.Ordered](data []T, cfg Config) error {
	return ParallelSort(data, Ordered[T](), cfg)
}

// ParallelSortStats ParallelSort 와 같고 실행 통계를 함께 돌려준다.
func ParallelSortStats[T any](data []T, compare CompareFunc[T], cfg Config) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	if compare == nil {
		return Stats{}, errors.AssertionFailedf("nil comparator")
	}
	cfg.MaxDepth = cfg.effectiveDepth()

	c := &coordinator[T]{
		cfg:     cfg,
		compare: compare,
		slots:   newTaskSlots(cfg.TaskBudget()),
	}
	err := c.sortPar(data, 0)
	return c.stats(), err
}

// SortRange data[left..right] (양끝 포함) 구간만 병렬 정렬한다.
// left > right 이면 빈 구간으로 보고 아무것도 하지 않는다.
func SortRange[T any](data []T, left, right int, compare CompareFunc[T], cfg Config) error {
	if left > right {
		return nil
	}
	if left < 0 || right >= len(data) {
		return errors.Wrapf(ErrInvalidRange,
			"range [%d, %d] out of bounds for length %d", left, right, len(data))
	}
	return ParallelSort(data[left:right+1], compare, cfg)
}

// coordinator 최상위 호출 하나의 상태. 호출 사이에 공유되지 않는다.
type coordinator[T any] struct {
	cfg     Config
	compare CompareFunc[T]
	slots   *taskSlots

	sequentialRuns  atomic.Int64
	inlineFallbacks atomic.Int64
	deepestFork     atomic.Int64
}

// sortPar 포크-조인 재귀
func (c *coordinator[T]) sortPar(data []T, depth int) error {
	if len(data) <= c.cfg.SequentialThreshold || depth >= c.cfg.MaxDepth {
		if len(data) > 1 {
			c.sequentialRuns.Add(1)
		}
		return sortSeq(data, c.compare)
	}

	i, err := pivotAndPartition(data, c.compare)
	if err != nil {
		return err
	}
	left, right := data[:i], data[i+1:]

	if !c.slots.tryAcquire() {
		// 예산이 바닥나면 왼쪽도 이 고루틴에서 처리한다.
		c.inlineFallbacks.Add(1)
		if err := c.sortPar(left, depth+1); err != nil {
			return err
		}
		return c.sortPar(right, depth+1)
	}
	c.observeFork(depth + 1)

	var g errgroup.Group
	g.Go(func() error {
		defer c.slots.release()
		return c.sortPar(left, depth+1)
	})

	rightErr := c.sortPar(right, depth+1)
	// 오른쪽이 실패해도 왼쪽 태스크는 반드시 join 한다.
	leftErr := g.Wait()
	return errors.CombineErrors(rightErr, leftErr)
}

func (c *coordinator[T]) observeFork(depth int) {
	d := int64(depth)
	for {
		cur := c.deepestFork.Load()
		if d <= cur || c.deepestFork.CompareAndSwap(cur, d) {
			return
		}
	}
}

func (c *coordinator[T]) stats() Stats {
	return Stats{
		Forks:           c.slots.spawned.Load(),
		InlineFallbacks: c.inlineFallbacks.Load(),
		SequentialRuns:  c.sequentialRuns.Load(),
		PeakLiveTasks:   c.slots.peak.Load(),
		DeepestFork:     int(c.deepestFork.Load()),
	}
}
