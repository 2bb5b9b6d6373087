package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile_LinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	// rank = 80/100 * 3 = 2.4 -> 3 + 0.4*(4-3) = 3.4
	assert.InDelta(t, 3.4, percentile(values, 80), 1e-9)
	// rank = 20/100 * 3 = 0.6 -> 1 + 0.6*(2-1) = 1.6
	assert.InDelta(t, 1.6, percentile(values, 20), 1e-9)
	assert.InDelta(t, 1, percentile(values, 0), 1e-9)
	assert.InDelta(t, 4, percentile(values, 100), 1e-9)
}

func TestPercentile_SingleValue(t *testing.T) {
	assert.InDelta(t, 7, percentile([]float64{7}, 80), 1e-9)
	assert.InDelta(t, 7, percentile([]float64{7}, 20), 1e-9)
}

func TestPercentile_Empty(t *testing.T) {
	assert.Zero(t, percentile(nil, 80))
}

func TestPercentile_UnsortedInput(t *testing.T) {
	values := []float64{4, 1, 3, 2}
	assert.InDelta(t, 3.4, percentile(values, 80), 1e-9)
	// Input slice must stay untouched
	assert.Equal(t, []float64{4, 1, 3, 2}, values)
}

func TestStandardize_MeanAndSpread(t *testing.T) {
	pts := [][2]float64{{0, 10}, {2, 10}, {4, 10}}
	out := standardize(pts)
	require.Len(t, out, 3)

	var meanX float64
	for _, p := range out {
		meanX += p[0]
	}
	assert.InDelta(t, 0, meanX/3, 1e-9)

	// Population std of {0,2,4} is sqrt(8/3)
	assert.InDelta(t, -1.224744871, out[0][0], 1e-6)
	assert.InDelta(t, 1.224744871, out[2][0], 1e-6)

	// Degenerate z axis keeps zero offsets instead of dividing by zero
	for _, p := range out {
		assert.InDelta(t, 0, p[1], 1e-9)
	}
}

func TestStandardize_Empty(t *testing.T) {
	assert.Nil(t, standardize(nil))
}
