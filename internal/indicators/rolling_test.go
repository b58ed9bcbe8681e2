package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategy-lab/dca-backtest/pkg/types"
)

func pricePoints(prices ...float64) []types.PricePoint {
	points := make([]types.PricePoint, len(prices))
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range prices {
		points[i] = types.PricePoint{Timestamp: start.AddDate(0, 0, i), Price: p}
	}
	return points
}

func TestSMA(t *testing.T) {
	sma, err := SMA(pricePoints(1, 2, 3, 4, 5), 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, sma, 1e-12)

	sma, err = SMA(pricePoints(10, 20), 2)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, sma, 1e-12)

	_, err = SMA(pricePoints(1, 2), 3)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = SMA(pricePoints(1, 2), 0)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEMA(t *testing.T) {
	// span 3 (alpha 0.5) seeded from the first price:
	// 100 -> 0.5*100+0.5*100=100 -> 0.5*70+0.5*100=85
	ema, err := EMA(pricePoints(100, 100, 70), 3)
	require.NoError(t, err)
	assert.InDelta(t, 85.0, ema, 1e-12)

	// a constant series has itself as EMA
	ema, err = EMA(pricePoints(50, 50, 50, 50), 4)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, ema, 1e-12)

	_, err = EMA(pricePoints(1, 2), 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEMA_WeighsRecentMoreThanSMA(t *testing.T) {
	points := pricePoints(10, 10, 10, 10, 100)

	ema, err := EMA(points, 5)
	require.NoError(t, err)
	sma, err := SMA(points, 5)
	require.NoError(t, err)

	assert.Greater(t, ema, sma)
}

func TestTrailingHigh(t *testing.T) {
	high, err := TrailingHigh(pricePoints(200, 100, 150, 120), 3)
	require.NoError(t, err)
	assert.Equal(t, 150.0, high, "peak outside the lookback is ignored")

	high, err = TrailingHigh(pricePoints(200, 100, 150, 120), 10)
	require.NoError(t, err)
	assert.Equal(t, 200.0, high, "short window falls back to the whole history")

	_, err = TrailingHigh(nil, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = TrailingHigh(pricePoints(100), 0)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestReturns(t *testing.T) {
	rets := Returns(pricePoints(100, 110, 99))
	require.Len(t, rets, 2)
	assert.InDelta(t, 0.10, rets[0], 1e-12)
	assert.InDelta(t, -0.10, rets[1], 1e-12)

	assert.Nil(t, Returns(pricePoints(100)))
	assert.Nil(t, Returns(nil))
}

func TestVolatilitySeries(t *testing.T) {
	// returns: +0.10, -0.10, +0.10, -0.10
	points := pricePoints(100, 110, 99, 108.9, 98.01)

	vols, err := VolatilitySeries(points, 2, 12)
	require.NoError(t, err)
	require.Len(t, vols, 3)

	// each window holds {+0.1, -0.1}: stdev = 0.2/sqrt(2)
	want := 0.2 / math.Sqrt2 * math.Sqrt(12)
	for _, v := range vols {
		assert.InDelta(t, want, v, 1e-9)
	}
}

func TestVolatilitySeries_FlatPricesAreZero(t *testing.T) {
	vols, err := VolatilitySeries(pricePoints(100, 100, 100, 100, 100), 3, 12)
	require.NoError(t, err)
	for _, v := range vols {
		assert.Equal(t, 0.0, v)
	}
}

func TestVolatilitySeries_InsufficientData(t *testing.T) {
	_, err := VolatilitySeries(pricePoints(100, 110, 99), 3, 12)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = VolatilitySeries(pricePoints(100, 110, 99, 105), 1, 12)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSampleStdDev(t *testing.T) {
	assert.InDelta(t, math.Sqrt(32.0/7.0), sampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, sampleStdDev([]float64{5}))
	assert.Equal(t, 0.0, sampleStdDev(nil))
}
