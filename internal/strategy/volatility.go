package strategy

import (
	"fmt"

	"github.com/strategy-lab/dca-backtest/internal/indicators"
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// VolatilityRule scales the contribution with current volatility relative
// to its trailing average: elevated volatility earns a boost, depressed
// volatility a reduction. The resulting multiplier is always clamped into
// the configured [min, max] bounds.
type VolatilityRule struct{}

func (VolatilityRule) Name() string            { return "Volatility Adjustment" }
func (VolatilityRule) Variant() config.Variant { return config.VariantVolatility }

func (VolatilityRule) Decide(_ PortfolioState, window []types.PricePoint, cfg *config.StrategyConfig) Action {
	vols, err := indicators.VolatilitySeries(window, cfg.VolWindow, cfg.Frequency.PeriodsPerYear())
	if err != nil {
		return Action{
			Contribution: cfg.BaseAmount,
			Note: fmt.Sprintf("insufficient history (%d/%d), base contribution",
				len(window), cfg.VolWindow+1),
		}
	}

	current := vols[len(vols)-1]
	avg := trailingMean(vols, cfg.VolLookback)
	if avg <= 0 {
		return Action{Contribution: cfg.BaseAmount, Note: "zero trailing volatility, base contribution"}
	}

	ratio := current / avg
	multiplier := 1.0
	switch {
	case ratio >= cfg.HighVolThreshold:
		multiplier = cfg.HighVolMultiplier
	case ratio <= cfg.LowVolThreshold:
		multiplier = cfg.LowVolMultiplier
	}
	multiplier = clamp(multiplier, cfg.MinMultiplier, cfg.MaxMultiplier)

	return Action{
		Contribution: cfg.BaseAmount * multiplier,
		Note: fmt.Sprintf("volatility %.1f%% (%.2fx average), contributing %.2fx",
			current*100, ratio, multiplier),
	}
}

func trailingMean(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	start := len(values) - n
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, v := range values[start:] {
		sum += v
	}
	return sum / float64(len(values)-start)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
