package strategy

import (
	"fmt"

	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// ProfitTakingRule keeps the regular contribution schedule but sells a
// configured fraction of holdings whenever the unrealized gain ratio
// crosses the target, then waits out a cooldown before selling again.
type ProfitTakingRule struct{}

func (ProfitTakingRule) Name() string            { return "Profit Taking" }
func (ProfitTakingRule) Variant() config.Variant { return config.VariantProfitTaking }

func (ProfitTakingRule) Decide(state PortfolioState, _ []types.PricePoint, cfg *config.StrategyConfig) Action {
	gain := state.GainRatio()
	cooldownOver := !state.HasDivested || state.PeriodsSinceDivest >= cfg.CooldownPeriods

	if gain >= cfg.ProfitThreshold && cooldownOver && state.UnitsHeld > 0 {
		return Action{
			Contribution: cfg.BaseAmount,
			DivestUnits:  state.UnitsHeld * cfg.SellFraction,
			Note: fmt.Sprintf("gain %.1f%% >= %.0f%%, divesting %.0f%% of holdings",
				gain*100, cfg.ProfitThreshold*100, cfg.SellFraction*100),
		}
	}

	note := "base contribution"
	if gain >= cfg.ProfitThreshold && !cooldownOver {
		note = fmt.Sprintf("cooldown (%d/%d), base contribution",
			state.PeriodsSinceDivest, cfg.CooldownPeriods)
	}
	return Action{Contribution: cfg.BaseAmount, Note: note}
}
