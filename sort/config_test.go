package sort

import (
	stderrors "errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepthForParallelism(t *testing.T) {
	tests := []struct {
		p    int
		want int
	}{
		{-1, 0}, {0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {16, 4}, {17, 5}, {64, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DepthForParallelism(tt.p), "p=%d", tt.p)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultSequentialThreshold, cfg.SequentialThreshold)
	assert.Equal(t, DepthForParallelism(runtime.GOMAXPROCS(0)), cfg.MaxDepth)

	// 마지막 단계 구간 수가 코어 수 이상
	if p := runtime.GOMAXPROCS(0); p > 1 {
		assert.GreaterOrEqual(t, 1<<cfg.MaxDepth, p)
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, ReferenceConfig().Validate())
	require.NoError(t, Config{}.Validate())
	require.NoError(t, Config{MaxDepth: MaxDepthLimit}.Validate())
	require.NoError(t, Config{MaxDepth: MaxDepthLimit + 1}.Validate())

	require.ErrorIs(t, Config{SequentialThreshold: -5}.Validate(), ErrInvalidConfig)
	require.ErrorIs(t, Config{MaxDepth: -1}.Validate(), ErrInvalidConfig)

	err := Config{SequentialThreshold: -5}.Validate()
	assert.True(t, stderrors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "-5")
}

func TestTaskBudget(t *testing.T) {
	assert.Equal(t, 0, Config{MaxDepth: 0}.TaskBudget())
	assert.Equal(t, 1, Config{MaxDepth: 1}.TaskBudget())
	assert.Equal(t, 15, ReferenceConfig().TaskBudget())
	assert.Equal(t, 1<<30-1, Config{MaxDepth: MaxDepthLimit}.TaskBudget())
	// 상한보다 깊으면 잘린다.
	assert.Equal(t, 1<<MaxDepthLimit-1, Config{MaxDepth: 64}.TaskBudget())
}
