package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverfox-lab/silverfox/pkg/errors"
)

func TestWMASeries(t *testing.T) {
	series, err := WMASeries([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.InDelta(t, 2.3333, series[0], 1e-4)
	assert.InDelta(t, 3.3333, series[1], 1e-4)
	assert.InDelta(t, 4.3333, series[2], 1e-4)
}

func TestWMAWeightsRecentHeaviest(t *testing.T) {
	v, err := WMA([]float64{10, 11, 13, 12, 15}, 4)
	require.NoError(t, err)
	assert.InDelta(t, 13.3, v, 1e-9)
}

func TestWMAInsufficientData(t *testing.T) {
	_, err := WMASeries([]float64{1, 2}, 3)
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientDataError(err))
}

func TestWMARejectsNonPositivePeriod(t *testing.T) {
	_, err := WMASeries([]float64{1, 2, 3}, 0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func TestHMA(t *testing.T) {
	vals := []float64{10.0, 10.2, 10.1, 10.4, 10.5, 10.3, 10.6, 10.8, 10.7, 11.0, 11.2, 11.1}

	v, err := HMA(vals, 9)
	require.NoError(t, err)
	assert.InDelta(t, 11.2085, v, 1e-4)
}

func TestHMATracksALinearTrend(t *testing.T) {
	// On a perfectly linear series the lag cancellation is exact: the
	// Hull average lands on the newest value.
	vals := make([]float64, 11)
	for i := range vals {
		vals[i] = float64(i + 1)
	}

	v, err := HMA(vals, 9)
	require.NoError(t, err)
	assert.InDelta(t, 11.0, v, 1e-9)
}

func TestHMARequiresSmoothingTail(t *testing.T) {
	// Period 9 needs 9+isqrt(9)-1 = 11 points.
	vals := make([]float64, 10)
	for i := range vals {
		vals[i] = float64(i)
	}

	_, err := HMA(vals, 9)
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientDataError(err))
}

func TestSMA(t *testing.T) {
	v, err := SMA([]float64{1, 2, 3, 4, 5, 9}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, v, 1e-9)

	_, err = SMA([]float64{1, 2}, 5)
	assert.True(t, errors.IsInsufficientDataError(err))
}

func TestATRWilderSmoothing(t *testing.T) {
	high := []float64{10.5, 10.8, 10.6, 11.0, 11.2, 11.1}
	low := []float64{10.0, 10.2, 10.1, 10.5, 10.6, 10.7}
	close := []float64{10.2, 10.5, 10.3, 10.9, 11.0, 10.9}

	v, err := ATR(high, low, close, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.5333, v, 1e-4)
}

func TestATRRejectsMismatchedSeries(t *testing.T) {
	_, err := ATR([]float64{1, 2}, []float64{1}, []float64{1, 2}, 1)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func TestATRNeedsPreviousClose(t *testing.T) {
	series := []float64{1, 2, 3}

	_, err := ATR(series, series, series, 3)
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientDataError(err))
}

func TestCCIReturnsConsecutiveReadings(t *testing.T) {
	high := []float64{10.5, 10.8, 10.6, 11.0, 11.2}
	low := []float64{10.0, 10.2, 10.1, 10.5, 10.6}
	close := []float64{10.2, 10.5, 10.3, 10.9, 11.0}

	prev, curr, err := CCI(high, low, close, 3)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, prev, 1e-9)
	assert.InDelta(t, 68.75, curr, 1e-9)
}

func TestCCIFlatSeriesIsZero(t *testing.T) {
	flat := []float64{5, 5, 5, 5}

	prev, curr, err := CCI(flat, flat, flat, 3)
	require.NoError(t, err)
	assert.Zero(t, prev)
	assert.Zero(t, curr)
}

func TestIsqrt(t *testing.T) {
	assert.Equal(t, 3, isqrt(9))
	assert.Equal(t, 4, isqrt(20))
	assert.Equal(t, 7, isqrt(60))
}
