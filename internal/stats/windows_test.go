package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategy-lab/dca-backtest/internal/errors"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

func dailyTestSeries(t *testing.T, days int) *types.PriceSeries {
	t.Helper()
	points := make([]types.PricePoint, days)
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range points {
		points[i] = types.PricePoint{Timestamp: start.AddDate(0, 0, i), Price: 100}
	}
	series, err := types.NewPriceSeries("TEST", types.FrequencyDaily, points)
	require.NoError(t, err)
	return series
}

func TestRandomWindows_SeedReproducible(t *testing.T) {
	series := dailyTestSeries(t, 365*10)

	first, err := NewWindowSampler(42).RandomWindows(series, 50, 2, 6)
	require.NoError(t, err)
	second, err := NewWindowSampler(42).RandomWindows(series, 50, 2, 6)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := NewWindowSampler(7).RandomWindows(series, 50, 2, 6)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestRandomWindows_RespectsBounds(t *testing.T) {
	series := dailyTestSeries(t, 365*10)
	minYears, maxYears := 2.0, 6.0

	windows, err := NewWindowSampler(1).RandomWindows(series, 200, minYears, maxYears)
	require.NoError(t, err)
	require.NotEmpty(t, windows)

	minSpan := time.Duration(minYears * 365 * 24 * float64(time.Hour))
	maxSpan := time.Duration(maxYears * 365 * 24 * float64(time.Hour))
	for _, w := range windows {
		assert.False(t, w.Start.Before(series.Start()))
		assert.False(t, w.End.After(series.End()))
		span := w.End.Sub(w.Start)
		assert.GreaterOrEqual(t, span, minSpan)
		assert.LessOrEqual(t, span, maxSpan)
	}
}

func TestRandomWindows_SeriesTooShort(t *testing.T) {
	series := dailyTestSeries(t, 200)

	_, err := NewWindowSampler(1).RandomWindows(series, 10, 3, 20)
	assert.True(t, errors.IsInsufficientData(err))
}

func TestRandomWindows_InvalidArguments(t *testing.T) {
	series := dailyTestSeries(t, 365*5)
	sampler := NewWindowSampler(1)

	_, err := sampler.RandomWindows(series, 0, 1, 2)
	assert.True(t, errors.IsInvalidConfiguration(err))
	_, err = sampler.RandomWindows(series, 10, 0, 2)
	assert.True(t, errors.IsInvalidConfiguration(err))
	_, err = sampler.RandomWindows(series, 10, 3, 2)
	assert.True(t, errors.IsInvalidConfiguration(err))
}

func TestRollingWindows_CountAndSpacing(t *testing.T) {
	series := dailyTestSeries(t, 365) // 364 days between first and last point

	span := 100 * 24 * time.Hour
	step := 50 * 24 * time.Hour
	windows, err := NewWindowSampler(1).RollingWindows(series, span, step)
	require.NoError(t, err)

	// starts at day 0, 50, 100, ... while start+100d fits in 364d
	require.Len(t, windows, 6)
	for i, w := range windows {
		assert.Equal(t, series.Start().Add(time.Duration(i)*step), w.Start)
		assert.Equal(t, w.Start.Add(span), w.End)
		assert.False(t, w.End.After(series.End()))
	}
}

func TestRollingWindows_Errors(t *testing.T) {
	series := dailyTestSeries(t, 30)
	sampler := NewWindowSampler(1)

	_, err := sampler.RollingWindows(series, 0, 24*time.Hour)
	assert.True(t, errors.IsInvalidConfiguration(err))

	_, err = sampler.RollingWindows(series, 365*24*time.Hour, 24*time.Hour)
	assert.True(t, errors.IsInsufficientData(err))
}

func TestFixedWindows_SkipsOutOfRange(t *testing.T) {
	series := dailyTestSeries(t, 365)
	sampler := NewWindowSampler(1)

	inRange := series.Start().AddDate(0, 3, 0)
	windows := sampler.FixedWindows(series, []time.Time{
		series.Start().AddDate(-1, 0, 0), // before the data
		inRange,
		series.End(), // equal to end, empty window
		series.End().AddDate(1, 0, 0),
	})

	require.Len(t, windows, 1)
	assert.Equal(t, inRange, windows[0].Start)
	assert.Equal(t, series.End(), windows[0].End)
}
