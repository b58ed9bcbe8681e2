package data

import (
	"fmt"
	"time"

	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// DefaultFilter implements Filter with straightforward slice scans.
type DefaultFilter struct{}

// NewDefaultFilter creates the default candle filter.
func NewDefaultFilter() *DefaultFilter {
	return &DefaultFilter{}
}

// FilterByDateRange keeps candles inside the inclusive date range.
func (f *DefaultFilter) FilterByDateRange(candles []types.Candle, start, end time.Time) []types.Candle {
	filtered := make([]types.Candle, 0, len(candles))
	for _, c := range candles {
		if c.Timestamp.Before(start) || c.Timestamp.After(end) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// FilterByPeriod keeps the trailing period of candles, measured back
// from the newest candle.
func (f *DefaultFilter) FilterByPeriod(candles []types.Candle, period time.Duration) []types.Candle {
	if len(candles) == 0 || period <= 0 {
		return candles
	}
	cutoff := candles[len(candles)-1].Timestamp.Add(-period)
	for i, c := range candles {
		if !c.Timestamp.Before(cutoff) {
			return candles[i:]
		}
	}
	return nil
}

// ValidateTimeSequence ensures candles are in chronological order.
func (f *DefaultFilter) ValidateTimeSequence(candles []types.Candle) error {
	for i := 1; i < len(candles); i++ {
		if candles[i].Timestamp.Before(candles[i-1].Timestamp) {
			return fmt.Errorf("timestamps out of order at index %d: %s before %s",
				i, candles[i].Timestamp.Format(time.RFC3339), candles[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}
