package backtest

import (
	"github.com/strategy-lab/dca-backtest/internal/errors"
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// SweepResult is the outcome of one parameter value in a sensitivity
// sweep.
type SweepResult struct {
	Value   float64
	Ledger  *Ledger
	Metrics *MetricsRecord
	Err     error
}

// RunSweep scores one strategy across a grid of values for a single
// parameter. Each value is applied to a clone of the base config by
// set, the clones run through the batch worker pool, and results come
// back in value order. A value that fails validation or simulation
// carries its own error without blocking the rest of the sweep.
func RunSweep(series *types.PriceSeries, base *config.StrategyConfig, values []float64, set func(*config.StrategyConfig, float64), workerCount int, riskFreeRate float64) ([]SweepResult, error) {
	if len(values) == 0 {
		return nil, errors.New(errors.KindInvalidConfiguration, "backtest", "sweep",
			"no parameter values supplied")
	}
	if set == nil {
		return nil, errors.New(errors.KindInvalidConfiguration, "backtest", "sweep",
			"no parameter setter supplied")
	}

	configs := make([]*config.StrategyConfig, len(values))
	for i, v := range values {
		cfg := base.Clone()
		set(cfg, v)
		configs[i] = cfg
	}

	results := RunBatch(series, configs, workerCount, riskFreeRate)

	sweep := make([]SweepResult, len(values))
	for i, r := range results {
		sweep[i] = SweepResult{
			Value:   values[i],
			Ledger:  r.Ledger,
			Metrics: r.Metrics,
			Err:     r.Err,
		}
	}
	return sweep, nil
}
