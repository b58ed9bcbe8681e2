package strategy

import (
	"github.com/strategy-lab/dca-backtest/internal/errors"
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// Rule is the decision unit of a backtest: called exactly once per
// simulated period, in period order, with the portfolio state and the
// trailing price window up to and including the current period.
//
// Implementations are stateless. Everything a decision depends on is in
// (state, window, cfg), so identical inputs always produce identical
// actions; cross-period memory (the profit-taking cooldown) lives in
// PortfolioState and is maintained by the engine.
type Rule interface {
	// Name returns the strategy's display name.
	Name() string

	// Variant returns the strategy's variant identifier.
	Variant() config.Variant

	// Decide returns the investment action for the current period.
	// Missing or insufficient history never fails: rules degrade to the
	// base contribution and record why in Action.Note.
	Decide(state PortfolioState, window []types.PricePoint, cfg *config.StrategyConfig) Action
}

// Action is a rule's decision for one period.
type Action struct {
	// Contribution is the cash amount to invest this period, >= 0.
	Contribution float64

	// DivestUnits is the number of held units to sell this period,
	// >= 0 and at most the currently held units.
	DivestUnits float64

	// Note explains the decision for the ledger record.
	Note string
}

// PortfolioState is the read-only snapshot of a run's portfolio handed
// to a rule each period. The engine owns the mutable state; rules only
// ever see this copy.
type PortfolioState struct {
	PeriodIndex        int
	UnitsHeld          float64
	CashInvested       float64
	RealizedProceeds   float64
	MarketValue        float64
	HasDivested        bool
	PeriodsSinceDivest int
}

// GainRatio returns the unrealized gain relative to invested cash,
// or 0 before anything has been invested.
func (s PortfolioState) GainRatio() float64 {
	if s.CashInvested <= 0 {
		return 0
	}
	return (s.MarketValue - s.CashInvested) / s.CashInvested
}

// New builds the rule for cfg's variant. The config is validated here so
// a rule never observes out-of-range parameters.
func New(cfg *config.StrategyConfig) (Rule, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.KindInvalidConfiguration, "strategy", "new rule")
	}

	switch cfg.Variant {
	case config.VariantPure:
		return PureRule{}, nil
	case config.VariantDipBuying:
		return DipBuyingRule{}, nil
	case config.VariantTrendFilter:
		return TrendFilterRule{}, nil
	case config.VariantVolatility:
		return VolatilityRule{}, nil
	case config.VariantProfitTaking:
		return ProfitTakingRule{}, nil
	default:
		return nil, errors.Newf(errors.KindInvalidConfiguration, "strategy", "new rule",
			"unknown strategy variant %q", cfg.Variant)
	}
}
