package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategy-lab/dca-backtest/internal/errors"
	"github.com/strategy-lab/dca-backtest/pkg/config"
)

// TestRunBatch_PreservesConfigOrder checks results come back in the
// same order as the submitted configs regardless of completion order.
func TestRunBatch_PreservesConfigOrder(t *testing.T) {
	series := monthlySeries(t, []float64{100, 90, 80, 95, 110, 105, 120, 100, 85, 130, 125, 140})

	configs := make([]*config.StrategyConfig, 0, len(config.Variants))
	for _, v := range config.Variants {
		configs = append(configs, config.NewStrategyConfig(v))
	}

	results := RunBatch(series, configs, 4, config.DefaultRiskFreeRate)
	require.Len(t, results, len(configs))

	for i, res := range results {
		require.NoError(t, res.Err)
		require.NotNil(t, res.Ledger)
		require.NotNil(t, res.Metrics)
		assert.Equal(t, configs[i].Variant, res.Ledger.Variant)
	}
}

// TestRunBatch_MatchesSequentialRun checks the pool produces the same
// ledgers as running each config directly.
func TestRunBatch_MatchesSequentialRun(t *testing.T) {
	series := monthlySeries(t, []float64{100, 85, 120, 70, 140, 110})
	cfg := config.NewStrategyConfig(config.VariantDipBuying)

	direct, err := NewEngine().Run(series, cfg, newRule(t, cfg))
	require.NoError(t, err)

	results := RunBatch(series, []*config.StrategyConfig{cfg}, 2, config.DefaultRiskFreeRate)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	assert.Equal(t, direct.Records, results[0].Ledger.Records)
}

// TestRunBatch_IsolatesFailures checks one bad config fails its own
// result without poisoning the rest of the batch.
func TestRunBatch_IsolatesFailures(t *testing.T) {
	series := monthlySeries(t, flatPrices(12, 100))

	good := config.NewStrategyConfig(config.VariantPure)
	bad := config.NewStrategyConfig(config.VariantDipBuying)
	bad.DipThreshold2 = 0.05 // below threshold 1, invalid

	results := RunBatch(series, []*config.StrategyConfig{good, bad}, 2, config.DefaultRiskFreeRate)
	require.Len(t, results, 2)

	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Metrics)

	assert.True(t, errors.IsInvalidConfiguration(results[1].Err))
	assert.Nil(t, results[1].Ledger)
}

// TestWorkerPool_ReportsDuration checks each result carries a measured
// duration.
func TestWorkerPool_ReportsDuration(t *testing.T) {
	series := monthlySeries(t, flatPrices(12, 100))
	cfg := config.NewStrategyConfig(config.VariantPure)

	results := RunBatch(series, []*config.StrategyConfig{cfg}, 1, config.DefaultRiskFreeRate)
	require.Len(t, results, 1)
	assert.Greater(t, results[0].Duration, time.Duration(0))
}
