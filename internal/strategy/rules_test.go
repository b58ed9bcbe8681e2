package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategy-lab/dca-backtest/internal/errors"
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

func window(prices ...float64) []types.PricePoint {
	points := make([]types.PricePoint, len(prices))
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range prices {
		points[i] = types.PricePoint{Timestamp: start.AddDate(0, i, 0), Price: p}
	}
	return points
}

// TestNew_DispatchesAllVariants checks the factory returns the right
// rule for every known variant.
func TestNew_DispatchesAllVariants(t *testing.T) {
	for _, v := range config.Variants {
		rule, err := New(config.NewStrategyConfig(v))
		require.NoError(t, err, "variant %s", v)
		assert.Equal(t, v, rule.Variant())
		assert.NotEmpty(t, rule.Name())
	}
}

// TestNew_RejectsInvalidConfig checks parameter validation happens at
// construction.
func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantProfitTaking)
	cfg.SellFraction = 1.5

	_, err := New(cfg)
	assert.True(t, errors.IsInvalidConfiguration(err))

	cfg = config.NewStrategyConfig("v9")
	_, err = New(cfg)
	assert.True(t, errors.IsInvalidConfiguration(err))
}

// TestPureRule_ConstantContribution checks the baseline ignores both
// state and prices.
func TestPureRule_ConstantContribution(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantPure)
	rule := PureRule{}

	for _, w := range [][]types.PricePoint{window(100), window(100, 50, 25), nil} {
		action := rule.Decide(PortfolioState{}, w, cfg)
		assert.Equal(t, cfg.BaseAmount, action.Contribution)
		assert.Equal(t, 0.0, action.DivestUnits)
	}
}

// TestDipBuyingRule_Tiers checks both dip tiers and the calm-market
// baseline.
func TestDipBuyingRule_Tiers(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantDipBuying)
	rule := DipBuyingRule{}

	tests := []struct {
		name   string
		window []types.PricePoint
		want   float64
	}{
		{"no drawdown", window(100, 100, 100), cfg.BaseAmount},
		{"small dip below first tier", window(100, 100, 95), cfg.BaseAmount},
		{"first tier", window(100, 100, 88), cfg.BaseAmount * cfg.DipMultiplier1},
		{"second tier", window(100, 100, 75), cfg.BaseAmount * cfg.DipMultiplier2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action := rule.Decide(PortfolioState{}, tt.window, cfg)
			assert.Equal(t, tt.want, action.Contribution)
		})
	}
}

// TestDipBuyingRule_InsufficientHistory checks the fallback to base on
// a one-point window.
func TestDipBuyingRule_InsufficientHistory(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantDipBuying)

	action := DipBuyingRule{}.Decide(PortfolioState{}, window(100), cfg)
	assert.Equal(t, cfg.BaseAmount, action.Contribution)
	assert.Contains(t, action.Note, "insufficient history")
}

// TestDipBuyingRule_LookbackBounds checks drawdown is measured against
// the lookback window, not all history.
func TestDipBuyingRule_LookbackBounds(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantDipBuying)
	cfg.DipLookback = 3

	// The 200 peak is outside the 3-period lookback; within it the
	// high is 100, so no dip tier triggers.
	action := DipBuyingRule{}.Decide(PortfolioState{}, window(200, 100, 100, 95), cfg)
	assert.Equal(t, cfg.BaseAmount, action.Contribution)
}

// TestTrendFilterRule_AboveBelow checks the boost below the moving
// average and the baseline above it.
func TestTrendFilterRule_AboveBelow(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantTrendFilter)
	cfg.MAWindow = 3
	rule := TrendFilterRule{}

	below := rule.Decide(PortfolioState{}, window(100, 100, 70), cfg)
	assert.Equal(t, cfg.BaseAmount*cfg.BelowMultiplier, below.Contribution)

	above := rule.Decide(PortfolioState{}, window(100, 100, 130), cfg)
	assert.Equal(t, cfg.BaseAmount*cfg.AboveMultiplier, above.Contribution)
}

// TestTrendFilterRule_EMABranch checks the EMA branch is used when
// configured.
func TestTrendFilterRule_EMABranch(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantTrendFilter)
	cfg.MAWindow = 3
	cfg.MAType = "EMA"

	action := TrendFilterRule{}.Decide(PortfolioState{}, window(100, 100, 70), cfg)
	assert.Equal(t, cfg.BaseAmount*cfg.BelowMultiplier, action.Contribution)
	assert.Contains(t, action.Note, "EMA3")
}

// TestTrendFilterRule_InsufficientHistory checks the fallback when the
// window is shorter than the moving average period.
func TestTrendFilterRule_InsufficientHistory(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantTrendFilter)

	action := TrendFilterRule{}.Decide(PortfolioState{}, window(100, 100), cfg)
	assert.Equal(t, cfg.BaseAmount, action.Contribution)
	assert.Contains(t, action.Note, "insufficient history")
}

// TestVolatilityRule_InsufficientHistory checks the fallback when the
// window cannot produce a volatility estimate.
func TestVolatilityRule_InsufficientHistory(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantVolatility)

	action := VolatilityRule{}.Decide(PortfolioState{}, window(100, 100, 100), cfg)
	assert.Equal(t, cfg.BaseAmount, action.Contribution)
	assert.Contains(t, action.Note, "insufficient history")
}

// TestVolatilityRule_CalmMarket checks steady prices keep the
// contribution at base.
func TestVolatilityRule_CalmMarket(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantVolatility)
	cfg.VolWindow = 2
	cfg.VolLookback = 4

	action := VolatilityRule{}.Decide(PortfolioState{},
		window(100, 101, 100, 101, 100, 101, 100, 101), cfg)
	assert.InDelta(t, cfg.BaseAmount, action.Contribution,
		cfg.BaseAmount*(cfg.MaxMultiplier-1))
	assert.GreaterOrEqual(t, action.Contribution, cfg.BaseAmount*cfg.MinMultiplier)
	assert.LessOrEqual(t, action.Contribution, cfg.BaseAmount*cfg.MaxMultiplier)
}

// TestVolatilityRule_ContributionAlwaysClamped checks the multiplier
// never escapes the configured bounds, whatever the prices do.
func TestVolatilityRule_ContributionAlwaysClamped(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantVolatility)
	cfg.VolWindow = 2
	cfg.VolLookback = 3
	cfg.HighVolMultiplier = 10 // beyond max, must be clamped
	cfg.MaxMultiplier = 2

	action := VolatilityRule{}.Decide(PortfolioState{},
		window(100, 100, 100, 100, 100, 50, 150, 40), cfg)
	assert.LessOrEqual(t, action.Contribution, cfg.BaseAmount*cfg.MaxMultiplier)
	assert.GreaterOrEqual(t, action.Contribution, cfg.BaseAmount*cfg.MinMultiplier)
}

// TestProfitTakingRule_DivestsOnGain checks the sell branch fires on a
// sufficient unrealized gain.
func TestProfitTakingRule_DivestsOnGain(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantProfitTaking)
	rule := ProfitTakingRule{}

	state := PortfolioState{
		UnitsHeld:    20,
		CashInvested: 2000,
		MarketValue:  4000,
	}
	action := rule.Decide(state, window(100, 200), cfg)
	assert.InDelta(t, 20*cfg.SellFraction, action.DivestUnits, 1e-9)
	assert.Equal(t, cfg.BaseAmount, action.Contribution)
}

// TestProfitTakingRule_CooldownGates checks no divestment happens
// during the cooldown even with the gain above threshold.
func TestProfitTakingRule_CooldownGates(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantProfitTaking)
	rule := ProfitTakingRule{}

	state := PortfolioState{
		UnitsHeld:          20,
		CashInvested:       2000,
		MarketValue:        4000,
		HasDivested:        true,
		PeriodsSinceDivest: cfg.CooldownPeriods - 1,
	}
	action := rule.Decide(state, window(100, 200), cfg)
	assert.Equal(t, 0.0, action.DivestUnits)
	assert.Contains(t, action.Note, "cooldown")

	state.PeriodsSinceDivest = cfg.CooldownPeriods
	action = rule.Decide(state, window(100, 200), cfg)
	assert.Greater(t, action.DivestUnits, 0.0)
}

// TestProfitTakingRule_NoUnitsNoSale checks nothing is divested before
// the first purchase.
func TestProfitTakingRule_NoUnitsNoSale(t *testing.T) {
	cfg := config.NewStrategyConfig(config.VariantProfitTaking)

	action := ProfitTakingRule{}.Decide(PortfolioState{}, window(100), cfg)
	assert.Equal(t, 0.0, action.DivestUnits)
	assert.Equal(t, cfg.BaseAmount, action.Contribution)
}
