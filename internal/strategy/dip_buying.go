package strategy

import (
	"fmt"

	"github.com/strategy-lab/dca-backtest/internal/indicators"
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// DipBuyingRule boosts the contribution when the current price has
// dropped from its trailing high. Two tiers: a deeper drawdown earns a
// larger multiplier.
type DipBuyingRule struct{}

func (DipBuyingRule) Name() string            { return "Dip Buying" }
func (DipBuyingRule) Variant() config.Variant { return config.VariantDipBuying }

func (DipBuyingRule) Decide(_ PortfolioState, window []types.PricePoint, cfg *config.StrategyConfig) Action {
	if len(window) < 2 {
		return Action{
			Contribution: cfg.BaseAmount,
			Note:         fmt.Sprintf("insufficient history (%d/2), base contribution", len(window)),
		}
	}

	high, err := indicators.TrailingHigh(window, cfg.DipLookback)
	if err != nil || high <= 0 {
		return Action{Contribution: cfg.BaseAmount, Note: "no trailing high, base contribution"}
	}

	current := window[len(window)-1].Price
	drawdown := (high - current) / high

	switch {
	case drawdown >= cfg.DipThreshold2:
		return Action{
			Contribution: cfg.BaseAmount * cfg.DipMultiplier2,
			Note: fmt.Sprintf("drawdown %.1f%% >= %.0f%%, contributing %.1fx",
				drawdown*100, cfg.DipThreshold2*100, cfg.DipMultiplier2),
		}
	case drawdown >= cfg.DipThreshold1:
		return Action{
			Contribution: cfg.BaseAmount * cfg.DipMultiplier1,
			Note: fmt.Sprintf("drawdown %.1f%% >= %.0f%%, contributing %.1fx",
				drawdown*100, cfg.DipThreshold1*100, cfg.DipMultiplier1),
		}
	default:
		return Action{
			Contribution: cfg.BaseAmount,
			Note: fmt.Sprintf("drawdown %.1f%% < %.0f%%, base contribution",
				drawdown*100, cfg.DipThreshold1*100),
		}
	}
}
