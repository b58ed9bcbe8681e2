package stats

import (
	"math/rand"
	"time"

	"github.com/strategy-lab/dca-backtest/internal/errors"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// Window is one sub-range of a price series to backtest over.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WindowSampler generates sub-windows of a series so that each
// strategy can be scored on many overlapping histories instead of a
// single run. Random sampling is seeded, so a given seed always yields
// the same windows.
type WindowSampler struct {
	rng *rand.Rand
}

// NewWindowSampler creates a sampler with a deterministic seed.
func NewWindowSampler(seed int64) *WindowSampler {
	return &WindowSampler{rng: rand.New(rand.NewSource(seed))}
}

// FixedWindows returns one window per start date, all ending at the
// series end. Start dates outside the series range are skipped.
func (ws *WindowSampler) FixedWindows(series *types.PriceSeries, starts []time.Time) []Window {
	end := series.End()
	windows := make([]Window, 0, len(starts))
	for _, start := range starts {
		if start.Before(series.Start()) || !start.Before(end) {
			continue
		}
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows
}

// RollingWindows slides a fixed-span window across the series with the
// given step, keeping every window that fits entirely in range.
func (ws *WindowSampler) RollingWindows(series *types.PriceSeries, span, step time.Duration) ([]Window, error) {
	if span <= 0 || step <= 0 {
		return nil, errors.New(errors.KindInvalidConfiguration, "stats", "rolling_windows",
			"window span and step must be positive")
	}

	var windows []Window
	for start := series.Start(); !start.Add(span).After(series.End()); start = start.Add(step) {
		windows = append(windows, Window{Start: start, End: start.Add(span)})
	}
	if len(windows) == 0 {
		return nil, errors.Newf(errors.KindInsufficientData, "stats", "rolling_windows",
			"series shorter than one %s window", span)
	}
	return windows, nil
}

// RandomWindows draws count windows with uniformly random start dates
// and durations between minYears and maxYears, clipped to the series
// range. Fewer than count windows come back when the series is too
// short for some draws.
func (ws *WindowSampler) RandomWindows(series *types.PriceSeries, count int, minYears, maxYears float64) ([]Window, error) {
	if count <= 0 || minYears <= 0 || maxYears < minYears {
		return nil, errors.New(errors.KindInvalidConfiguration, "stats", "random_windows",
			"count must be positive and 0 < minYears <= maxYears")
	}

	minDuration := time.Duration(minYears * 365 * 24 * float64(time.Hour))
	maxDuration := time.Duration(maxYears * 365 * 24 * float64(time.Hour))

	dataStart := series.Start()
	dataEnd := series.End()
	latestStart := dataEnd.Add(-minDuration)
	if latestStart.Before(dataStart) {
		return nil, errors.Newf(errors.KindInsufficientData, "stats", "random_windows",
			"series spans less than the minimum window of %.1f years", minYears)
	}

	startRange := latestStart.Sub(dataStart)
	windows := make([]Window, 0, count)
	for i := 0; i < count; i++ {
		start := dataStart.Add(time.Duration(ws.rng.Int63n(int64(startRange) + 1)))

		maxPossible := dataEnd.Sub(start)
		if maxPossible > maxDuration {
			maxPossible = maxDuration
		}
		if maxPossible < minDuration {
			continue
		}

		duration := minDuration
		if spread := int64(maxPossible - minDuration); spread > 0 {
			duration += time.Duration(ws.rng.Int63n(spread + 1))
		}
		windows = append(windows, Window{Start: start, End: start.Add(duration)})
	}
	return windows, nil
}
