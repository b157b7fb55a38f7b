package sort

import (
	"math/bits"
	"runtime"

	"github.com/cockroachdb/errors"
)

const (
	// DefaultSequentialThreshold 이 크기 이하 구간은 포크 비용이 더 크다.
	DefaultSequentialThreshold = 10000
	// ReferenceMaxDepth 고정 포크 깊이 기본값
	ReferenceMaxDepth = 4
	// MaxDepthLimit 실제로 쓰는 포크 깊이 상한. 더 큰 MaxDepth 는 이 값으로 잘린다.
	MaxDepthLimit = 30
)

// Config 병렬 정렬 설정
type Config struct {
	// SequentialThreshold 원소 수가 이 값 이하이면 순차 정렬로 넘긴다.
	SequentialThreshold int `mapstructure:"sequential_threshold" json:"sequential_threshold"`
	// MaxDepth 중첩 포크 단계 상한. 추가 고루틴은 최대 2^MaxDepth-1 개.
	MaxDepth int `mapstructure:"max_depth" json:"max_depth"`
}

// ReferenceConfig 임계값 10000, 깊이 4
func ReferenceConfig() Config {
	return Config{
		SequentialThreshold: DefaultSequentialThreshold,
		MaxDepth:            ReferenceMaxDepth,
	}
}

// DefaultConfig 는 깊이를 GOMAXPROCS 에서 유도한다.
func DefaultConfig() Config {
	return Config{
		SequentialThreshold: DefaultSequentialThreshold,
		MaxDepth:            DepthForParallelism(runtime.GOMAXPROCS(0)),
	}
}

// DepthForParallelism ceil(log2(p)). 깊이 d 에서 마지막 단계 구간이 2^d 개가 되므로
// p 개 코어를 모두 채우는 가장 얕은 깊이다. p <= 1 이면 0 (포크 안 함).
func DepthForParallelism(p int) int {
	if p <= 1 {
		return 0
	}
	return min(bits.Len(uint(p-1)), MaxDepthLimit)
}

// Validate 설정 검사
func (c Config) Validate() error {
	if c.SequentialThreshold < 0 {
		return errors.Wrapf(ErrInvalidConfig,
			"sequential threshold must be non-negative, got %d", c.SequentialThreshold)
	}
	if c.MaxDepth < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max depth must be non-negative, got %d", c.MaxDepth)
	}
	return nil
}

// effectiveDepth MaxDepthLimit 로 자른 포크 깊이.
// 구간이 2^30 조각으로 나뉘기 전에 임계값이나 길이 1 에 먼저 닿는다.
func (c Config) effectiveDepth() int {
	return min(c.MaxDepth, MaxDepthLimit)
}

// TaskBudget 한 번의 정렬 호출이 만들 수 있는 추가 태스크 수 2^MaxDepth-1
func (c Config) TaskBudget() int {
	return 1<<c.effectiveDepth() - 1
}
