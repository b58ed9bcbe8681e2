package strategy

import (
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// PureRule is the baseline: a fixed contribution every period regardless
// of price. All other variants are measured against it.
type PureRule struct{}

func (PureRule) Name() string            { return "Pure DCA" }
func (PureRule) Variant() config.Variant { return config.VariantPure }

func (PureRule) Decide(_ PortfolioState, _ []types.PricePoint, cfg *config.StrategyConfig) Action {
	return Action{
		Contribution: cfg.BaseAmount,
		Note:         "fixed periodic contribution",
	}
}
