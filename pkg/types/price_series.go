package types

import (
	"fmt"
	"math"
	"time"
)

// Frequency describes the contribution schedule of a backtest run.
type Frequency string

const (
	FrequencyDaily     Frequency = "D"
	FrequencyWeekly    Frequency = "W"
	FrequencyMonthly   Frequency = "M"
	FrequencyQuarterly Frequency = "Q"
)

// PeriodsPerYear returns the number of contribution periods in a year.
func (f Frequency) PeriodsPerYear() float64 {
	switch f {
	case FrequencyDaily:
		return 252
	case FrequencyWeekly:
		return 52
	case FrequencyQuarterly:
		return 4
	default:
		return 12
	}
}

// IsValid reports whether the frequency is one of the supported values.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

// ParseFrequency converts user input like "M" or "monthly" to a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch s {
	case "D", "d", "daily":
		return FrequencyDaily, nil
	case "W", "w", "weekly":
		return FrequencyWeekly, nil
	case "M", "m", "monthly":
		return FrequencyMonthly, nil
	case "Q", "q", "quarterly":
		return FrequencyQuarterly, nil
	}
	return "", fmt.Errorf("unknown frequency %q (use D, W, M, Q)", s)
}

// PricePoint is a single periodic price observation.
type PricePoint struct {
	Timestamp time.Time
	Price     float64
}

// PriceSeries is an immutable, time-ordered sequence of price observations
// for one asset. Construct it with NewPriceSeries; the validation there is
// what the rest of the system relies on.
type PriceSeries struct {
	symbol    string
	frequency Frequency
	points    []PricePoint
}

// NewPriceSeries validates and builds a price series. The points must be
// non-empty, strictly ascending in time, and carry positive finite prices.
func NewPriceSeries(symbol string, frequency Frequency, points []PricePoint) (*PriceSeries, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("price series %q is empty", symbol)
	}
	if !frequency.IsValid() {
		return nil, fmt.Errorf("price series %q has invalid frequency %q", symbol, frequency)
	}

	for i, p := range points {
		if p.Price <= 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return nil, fmt.Errorf("price series %q has invalid price %v at index %d", symbol, p.Price, i)
		}
		if i > 0 && !points[i-1].Timestamp.Before(p.Timestamp) {
			return nil, fmt.Errorf("price series %q timestamps not strictly ascending at index %d (%s then %s)",
				symbol, i,
				points[i-1].Timestamp.Format(time.RFC3339), p.Timestamp.Format(time.RFC3339))
		}
	}

	owned := make([]PricePoint, len(points))
	copy(owned, points)

	return &PriceSeries{symbol: symbol, frequency: frequency, points: owned}, nil
}

// Symbol returns the asset identifier.
func (s *PriceSeries) Symbol() string { return s.symbol }

// Frequency returns the declared observation frequency.
func (s *PriceSeries) Frequency() Frequency { return s.frequency }

// Len returns the number of observations.
func (s *PriceSeries) Len() int { return len(s.points) }

// At returns the observation at index i.
func (s *PriceSeries) At(i int) PricePoint { return s.points[i] }

// Points returns the full observation slice. Callers must treat it as
// read-only; backtest runs share one series across goroutines.
func (s *PriceSeries) Points() []PricePoint { return s.points }

// Window returns the observations up to and including index i.
func (s *PriceSeries) Window(i int) []PricePoint { return s.points[:i+1] }

// Start returns the first observation's timestamp.
func (s *PriceSeries) Start() time.Time { return s.points[0].Timestamp }

// End returns the last observation's timestamp.
func (s *PriceSeries) End() time.Time { return s.points[len(s.points)-1].Timestamp }

// Slice returns a new series restricted to [start, end] (inclusive).
// The returned series shares the underlying points with the receiver.
func (s *PriceSeries) Slice(start, end time.Time) (*PriceSeries, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid date range: end %s before start %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	lo := 0
	for lo < len(s.points) && s.points[lo].Timestamp.Before(start) {
		lo++
	}
	hi := len(s.points)
	for hi > lo && s.points[hi-1].Timestamp.After(end) {
		hi--
	}
	if lo == hi {
		return nil, fmt.Errorf("price series %q has no observations between %s and %s",
			s.symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	return &PriceSeries{symbol: s.symbol, frequency: s.frequency, points: s.points[lo:hi]}, nil
}
