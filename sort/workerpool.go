package sort

import (
	"sync/atomic"
)

// taskSlots 정렬 호출 하나가 쓰는 태스크 예산.
// 채널 세마포와 같은 방식(획득 시도 → 실패하면 호출한 고루틴에서 처리)이지만
// 예산이 최대 2^30-1 이라 채널 대신 원자적 카운터를 쓴다.
// 살아있는 태스크 수의 최댓값도 여기서 기록한다.
type taskSlots struct {
	capacity int64
	live     atomic.Int64
	peak     atomic.Int64
	spawned  atomic.Int64
}

func newTaskSlots(capacity int) *taskSlots {
	return &taskSlots{capacity: int64(capacity)}
}

// tryAcquire 슬롯 획득 시도
func (s *taskSlots) tryAcquire() bool {
	for {
		cur := s.live.Load()
		if cur >= s.capacity {
			return false
		}
		if s.live.CompareAndSwap(cur, cur+1) {
			s.spawned.Add(1)
			s.observePeak(cur + 1)
			return true
		}
	}
}

// release 슬롯 반환
func (s *taskSlots) release() {
	s.live.Add(-1)
}

func (s *taskSlots) observePeak(n int64) {
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

// Stats 정렬 호출 한 번의 실행 통계
type Stats struct {
	// Forks 비동기로 띄운 태스크 수
	Forks int64 `json:"forks"`
	// InlineFallbacks 슬롯이 없어 호출한 고루틴에서 처리한 왼쪽 구간 수
	InlineFallbacks int64 `json:"inline_fallbacks"`
	// SequentialRuns 순차 정렬로 넘긴 구간 수
	SequentialRuns int64 `json:"sequential_runs"`
	// PeakLiveTasks 동시에 살아있던 태스크 수의 최댓값
	PeakLiveTasks int64 `json:"peak_live_tasks"`
	// DeepestFork 포크가 일어난 가장 깊은 단계 (포크가 없으면 0)
	DeepestFork int `json:"deepest_fork"`
}
