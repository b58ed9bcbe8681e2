package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategy-lab/dca-backtest/internal/errors"
	"github.com/strategy-lab/dca-backtest/pkg/config"
)

func runLedger(t *testing.T, prices []float64, variant config.Variant) *Ledger {
	t.Helper()

	series := monthlySeries(t, prices)
	cfg := config.NewStrategyConfig(variant)
	ledger, err := NewEngine().Run(series, cfg, newRule(t, cfg))
	require.NoError(t, err)
	return ledger
}

// TestCalculator_Compute_FlatSeries checks the degenerate case: flat
// prices mean zero total return and zero drawdown.
func TestCalculator_Compute_FlatSeries(t *testing.T) {
	ledger := runLedger(t, flatPrices(13, 100), config.VariantPure)

	metrics, err := NewCalculator(config.DefaultRiskFreeRate).Compute(ledger)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, metrics.TotalReturn, 1e-9)
	assert.InDelta(t, 0.0, metrics.AnnualizedReturn, 1e-9)
	assert.Equal(t, 0.0, metrics.MaxDrawdown)
	assert.Equal(t, 0.0, metrics.CalmarRatio)
	assert.Equal(t, 13, metrics.TotalPeriods)
	assert.InDelta(t, 1.0, metrics.InvestmentYears, 0.01)
	assert.InDelta(t, 100.0, metrics.AverageCost, 1e-9)
}

// TestCalculator_Compute_TotalReturn checks the gain arithmetic on a
// rising series.
func TestCalculator_Compute_TotalReturn(t *testing.T) {
	// Buy 10 units at 100, then 5 at 200; final value 15*200 = 3000
	// against 2000 invested.
	ledger := runLedger(t, []float64{100, 200}, config.VariantPure)

	metrics, err := NewCalculator(config.DefaultRiskFreeRate).Compute(ledger)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, metrics.TotalReturn, 1e-9)
	assert.InDelta(t, 3000.0, metrics.FinalValue, 1e-9)
	assert.InDelta(t, 2000.0, metrics.TotalInvested, 1e-9)
	assert.Greater(t, metrics.AnnualizedReturn, 0.0)
	assert.Equal(t, 1.0, metrics.WinRate)
}

// TestCalculator_Compute_MaxDrawdown checks the peak-to-trough scan on
// a wealth curve with a known decline.
func TestCalculator_Compute_MaxDrawdown(t *testing.T) {
	assert.InDelta(t, 0.5, maxDrawdown([]float64{100, 200, 100, 150}), 1e-9)
	assert.Equal(t, 0.0, maxDrawdown([]float64{100, 150, 200}))
	assert.Equal(t, 0.0, maxDrawdown(nil))
}

// TestCalculator_Compute_SinglePeriod checks ratio metrics degrade to
// zero instead of dividing by zero.
func TestCalculator_Compute_SinglePeriod(t *testing.T) {
	ledger := runLedger(t, []float64{100}, config.VariantPure)

	metrics, err := NewCalculator(config.DefaultRiskFreeRate).Compute(ledger)
	require.NoError(t, err)

	assert.Equal(t, 0.0, metrics.Volatility)
	assert.Equal(t, 0.0, metrics.SharpeRatio)
	assert.Equal(t, 0.0, metrics.SortinoRatio)
	assert.Equal(t, 0.0, metrics.WinRate)
	assert.Equal(t, 1, metrics.TotalPeriods)
}

// TestCalculator_Compute_EmptyLedger checks the insufficient data error.
func TestCalculator_Compute_EmptyLedger(t *testing.T) {
	calc := NewCalculator(config.DefaultRiskFreeRate)

	_, err := calc.Compute(nil)
	assert.True(t, errors.IsInsufficientData(err))

	_, err = calc.Compute(&Ledger{})
	assert.True(t, errors.IsInsufficientData(err))
}

// TestCalculator_Compute_DivestedProceedsCount checks that realized
// proceeds are part of final value, so selling winners is not scored
// as a loss.
func TestCalculator_Compute_DivestedProceedsCount(t *testing.T) {
	ledger := runLedger(t, []float64{100, 100, 200, 200}, config.VariantProfitTaking)
	require.Greater(t, ledger.Final().RealizedProceeds, 0.0)

	metrics, err := NewCalculator(config.DefaultRiskFreeRate).Compute(ledger)
	require.NoError(t, err)

	assert.InDelta(t, ledger.Final().MarketValue+ledger.Final().RealizedProceeds,
		metrics.FinalValue, 1e-9)
	assert.Greater(t, metrics.TotalReturn, 0.0)
}

// TestSampleStdDev checks the n-1 estimator against a hand-computed
// value.
func TestSampleStdDev(t *testing.T) {
	got := sampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, math.Sqrt(32.0/7.0), got, 1e-12)

	assert.Equal(t, 0.0, sampleStdDev([]float64{5}))
	assert.Equal(t, 0.0, sampleStdDev(nil))
}

// TestCalculator_Compute_InvestmentYears checks the day-count
// convention over a known span.
func TestCalculator_Compute_InvestmentYears(t *testing.T) {
	ledger := runLedger(t, flatPrices(25, 100), config.VariantPure)

	metrics, err := NewCalculator(config.DefaultRiskFreeRate).Compute(ledger)
	require.NoError(t, err)

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 24, 0)
	expected := end.Sub(start).Hours() / 24 / 365.25
	assert.InDelta(t, expected, metrics.InvestmentYears, 1e-9)
}
