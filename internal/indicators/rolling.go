// Package indicators provides the rolling price statistics the strategy
// rules are built from. All functions are pure: they read a trailing
// window of observations and return a value, never retaining state, so
// rules built on them stay deterministic.
package indicators

import (
	"errors"
	"math"

	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// ErrInsufficientData is returned when a window does not cover the
// requested period count. Strategy rules treat it as "fall back to
// baseline", never as a failure.
var ErrInsufficientData = errors.New("insufficient data for indicator calculation")

// SMA returns the simple moving average of the last `period` prices.
func SMA(points []types.PricePoint, period int) (float64, error) {
	if period < 1 || len(points) < period {
		return 0, ErrInsufficientData
	}

	sum := 0.0
	for i := len(points) - period; i < len(points); i++ {
		sum += points[i].Price
	}
	return sum / float64(period), nil
}

// EMA returns the exponential moving average with span `period`,
// seeded from the first observation and folded over the whole window.
func EMA(points []types.PricePoint, period int) (float64, error) {
	if period < 1 || len(points) < period {
		return 0, ErrInsufficientData
	}

	alpha := 2.0 / float64(period+1)
	ema := points[0].Price
	for _, p := range points[1:] {
		ema = p.Price*alpha + ema*(1-alpha)
	}
	return ema, nil
}

// TrailingHigh returns the highest price among the last `lookback`
// observations (or the whole window when it is shorter).
func TrailingHigh(points []types.PricePoint, lookback int) (float64, error) {
	if len(points) == 0 || lookback < 1 {
		return 0, ErrInsufficientData
	}

	start := len(points) - lookback
	if start < 0 {
		start = 0
	}
	high := points[start].Price
	for _, p := range points[start+1:] {
		if p.Price > high {
			high = p.Price
		}
	}
	return high, nil
}

// Returns computes period-over-period price returns. The result has one
// fewer element than the input.
func Returns(points []types.PricePoint) []float64 {
	if len(points) < 2 {
		return nil
	}
	rets := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		rets = append(rets, (points[i].Price-points[i-1].Price)/points[i-1].Price)
	}
	return rets
}

// VolatilitySeries computes the rolling annualized volatility: for each
// position with at least `window` trailing returns, the sample standard
// deviation of those returns scaled by sqrt(periodsPerYear). The series
// is aligned to the tail of the input; element i covers returns
// [i, i+window).
func VolatilitySeries(points []types.PricePoint, window int, periodsPerYear float64) ([]float64, error) {
	rets := Returns(points)
	if window < 2 || len(rets) < window {
		return nil, ErrInsufficientData
	}

	vols := make([]float64, 0, len(rets)-window+1)
	for i := 0; i+window <= len(rets); i++ {
		vols = append(vols, sampleStdDev(rets[i:i+window])*math.Sqrt(periodsPerYear))
	}
	return vols, nil
}

// sampleStdDev is the n-1 standard deviation of values.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(n-1))
}
