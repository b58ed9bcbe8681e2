package strategy

import (
	"fmt"

	"github.com/strategy-lab/dca-backtest/internal/indicators"
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// TrendFilterRule boosts the contribution when the current price trades
// below its moving average, buying weakness relative to trend.
type TrendFilterRule struct{}

func (TrendFilterRule) Name() string            { return "Trend Filter" }
func (TrendFilterRule) Variant() config.Variant { return config.VariantTrendFilter }

func (TrendFilterRule) Decide(_ PortfolioState, window []types.PricePoint, cfg *config.StrategyConfig) Action {
	ma, err := movingAverage(window, cfg)
	if err != nil {
		return Action{
			Contribution: cfg.BaseAmount,
			Note: fmt.Sprintf("insufficient history (%d/%d), base contribution",
				len(window), cfg.MAWindow),
		}
	}

	current := window[len(window)-1].Price
	if current < ma {
		pctBelow := (ma - current) / ma * 100
		return Action{
			Contribution: cfg.BaseAmount * cfg.BelowMultiplier,
			Note: fmt.Sprintf("price %.1f%% below %s%d, contributing %.1fx",
				pctBelow, cfg.MAType, cfg.MAWindow, cfg.BelowMultiplier),
		}
	}

	pctAbove := (current - ma) / ma * 100
	return Action{
		Contribution: cfg.BaseAmount * cfg.AboveMultiplier,
		Note: fmt.Sprintf("price %.1f%% above %s%d, contributing %.1fx",
			pctAbove, cfg.MAType, cfg.MAWindow, cfg.AboveMultiplier),
	}
}

func movingAverage(window []types.PricePoint, cfg *config.StrategyConfig) (float64, error) {
	if cfg.MAType == "EMA" {
		return indicators.EMA(window, cfg.MAWindow)
	}
	return indicators.SMA(window, cfg.MAWindow)
}
