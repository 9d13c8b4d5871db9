package bins

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinSameSmallInterval(t *testing.T) {
	b := Bin(1000, 2000)
	assert.Greater(t, b, int64(4096))
}

func TestBinLargeIntervalFallsToCoarseBin(t *testing.T) {
	small := Bin(1000, 1010)
	large := Bin(1000, 100_000_000)
	assert.NotEqual(t, small, large)
	assert.Less(t, large, small)
}

func TestBinOutOfRangeCollapsesToOne(t *testing.T) {
	assert.Equal(t, int64(1), Bin(-5, 10))
	assert.Equal(t, int64(1), Bin(1, 1<<30))
}

func TestRangeIncludesBinResult(t *testing.T) {
	start, end := int64(50_000), int64(60_000)
	r := Range(start, end)
	b := Bin(start, end)
	_, ok := r[b]
	assert.True(t, ok)
	_, ok = r[1]
	assert.True(t, ok, "bin 1 is always a candidate")
}
