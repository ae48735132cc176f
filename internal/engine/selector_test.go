package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectStrategy(t *testing.T) {
	assert.Equal(t, StrategyDirect, selectStrategy(1, 20))
	assert.Equal(t, StrategyDirect, selectStrategy(20, 20))
	assert.Equal(t, StrategyBulk, selectStrategy(21, 20))
	assert.Equal(t, StrategyBulk, selectStrategy(100, 20))
}

func TestNeedsChunking_ThresholdBoundary(t *testing.T) {
	threshold := int64(50 * 1024 * 1024)

	assert.False(t, needsChunking(0, threshold))
	assert.False(t, needsChunking(threshold-1, threshold))
	assert.True(t, needsChunking(threshold, threshold), "a file at the threshold is always chunked")
	assert.True(t, needsChunking(threshold+1, threshold))
}
