package backtest

import (
	"fmt"

	"github.com/strategy-lab/dca-backtest/internal/errors"
	"github.com/strategy-lab/dca-backtest/internal/strategy"
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// Engine drives the period-by-period simulation of one strategy over one
// price series. A run is single-threaded and deterministic: identical
// inputs produce identical ledgers.
type Engine struct{}

// NewEngine creates a backtest engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Run simulates the configured strategy over the series' date range and
// returns the completed ledger.
//
// It fails with an InvalidConfiguration error when the config's
// parameters are out of range or the date range is empty, and with an
// InsufficientData error when the series has no observations in the
// requested range. It never retries; supplying usable data is the data
// collaborator's job.
func (e *Engine) Run(series *types.PriceSeries, cfg *config.StrategyConfig, rule strategy.Rule) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.KindInvalidConfiguration, "backtest", "run")
	}
	if rule == nil {
		return nil, errors.New(errors.KindInvalidConfiguration, "backtest", "run", "no strategy rule supplied")
	}
	if rule.Variant() != cfg.Variant {
		return nil, errors.Newf(errors.KindInvalidConfiguration, "backtest", "run",
			"rule variant %q does not match config variant %q", rule.Variant(), cfg.Variant)
	}

	start, end := cfg.DateRange(series)
	if end.Before(start) {
		return nil, errors.Newf(errors.KindInvalidConfiguration, "backtest", "run",
			"empty date range: %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	ranged, err := series.Slice(start, end)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindInsufficientData, "backtest", "run")
	}

	schedule := contributionSchedule(ranged.Points(), cfg.Frequency)
	if len(schedule) == 0 {
		return nil, errors.Newf(errors.KindInsufficientData, "backtest", "run",
			"no contribution periods between %s and %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	state := &simulationState{}
	records := make([]PeriodRecord, 0, len(schedule))

	// Rules see one observation per contribution period, so lookbacks
	// are measured in periods regardless of the raw data resolution.
	window := make([]types.PricePoint, 0, len(schedule))

	for _, idx := range schedule {
		pt := ranged.At(idx)
		window = append(window, pt)

		if state.hasDivested {
			state.periodsSinceDivest++
		}

		action := rule.Decide(strategy.PortfolioState{
			PeriodIndex:        state.periodIndex,
			UnitsHeld:          state.unitsHeld,
			CashInvested:       state.cashInvested,
			RealizedProceeds:   state.realizedProceeds,
			MarketValue:        state.unitsHeld * pt.Price,
			HasDivested:        state.hasDivested,
			PeriodsSinceDivest: state.periodsSinceDivest,
		}, window, cfg)

		records = append(records, e.applyAction(state, action, pt, cfg.BaseAmount))
		state.periodIndex++
	}

	return &Ledger{
		Symbol:    series.Symbol(),
		Variant:   cfg.Variant,
		Strategy:  rule.Name(),
		Frequency: cfg.Frequency,
		Config:    cfg.Clone(),
		Start:     records[0].Timestamp,
		End:       records[len(records)-1].Timestamp,
		Records:   records,
	}, nil
}

// applyAction evolves the simulation state by one period: divestment
// first, then the period's purchase, mirroring how proceeds settle
// before new cash goes in.
func (e *Engine) applyAction(state *simulationState, action strategy.Action, pt types.PricePoint, baseAmount float64) PeriodRecord {
	contribution := action.Contribution
	if contribution < 0 {
		contribution = 0
	}

	divested := action.DivestUnits
	if divested < 0 {
		divested = 0
	}
	if divested > state.unitsHeld {
		divested = state.unitsHeld
	}

	proceeds := divested * pt.Price
	state.unitsHeld -= divested
	state.realizedProceeds += proceeds

	if divested > 0 {
		state.hasDivested = true
		state.periodsSinceDivest = 0
	}

	bought := contribution / pt.Price
	state.unitsHeld += bought
	state.cashInvested += contribution

	multiplier := 0.0
	if baseAmount > 0 {
		multiplier = contribution / baseAmount
	}

	return PeriodRecord{
		Timestamp:        pt.Timestamp,
		Price:            pt.Price,
		Contribution:     contribution,
		Multiplier:       multiplier,
		UnitsBought:      bought,
		UnitsDivested:    divested,
		Proceeds:         proceeds,
		UnitsHeld:        state.unitsHeld,
		CashInvested:     state.cashInvested,
		RealizedProceeds: state.realizedProceeds,
		MarketValue:      state.unitsHeld * pt.Price,
		Note:             action.Note,
	}
}

// contributionSchedule picks the index of the first observation in each
// calendar bucket of the contribution frequency. With a daily frequency
// every observation is a contribution period.
func contributionSchedule(points []types.PricePoint, freq types.Frequency) []int {
	if freq == types.FrequencyDaily {
		schedule := make([]int, len(points))
		for i := range points {
			schedule[i] = i
		}
		return schedule
	}

	var schedule []int
	lastKey := ""
	for i, p := range points {
		key := bucketKey(p, freq)
		if key != lastKey {
			schedule = append(schedule, i)
			lastKey = key
		}
	}
	return schedule
}

func bucketKey(p types.PricePoint, freq types.Frequency) string {
	t := p.Timestamp
	switch freq {
	case types.FrequencyWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%dw%02d", year, week)
	case types.FrequencyQuarterly:
		return fmt.Sprintf("%sq%d", t.Format("2006"), int(t.Month()-1)/3+1)
	default: // monthly
		return t.Format("2006-01")
	}
}
