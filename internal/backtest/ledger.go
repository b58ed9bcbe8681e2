package backtest

import (
	"time"

	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// PeriodRecord is one row of a completed simulation: the price observed,
// the action applied, and the resulting portfolio totals.
type PeriodRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`

	Contribution float64 `json:"contribution"`
	Multiplier   float64 `json:"multiplier"`
	UnitsBought  float64 `json:"units_bought"`

	UnitsDivested float64 `json:"units_divested"`
	Proceeds      float64 `json:"proceeds"`

	UnitsHeld        float64 `json:"units_held"`
	CashInvested     float64 `json:"cash_invested"`
	RealizedProceeds float64 `json:"realized_proceeds"`
	MarketValue      float64 `json:"market_value"`

	Note string `json:"note,omitempty"`
}

// Ledger is the immutable period-by-period record of one completed run.
// Produced once by the engine, consumed read-only by the metrics
// calculator and the report layer.
type Ledger struct {
	Symbol    string                 `json:"symbol"`
	Variant   config.Variant         `json:"variant"`
	Strategy  string                 `json:"strategy"`
	Frequency types.Frequency        `json:"frequency"`
	Config    *config.StrategyConfig `json:"config"`

	Start   time.Time      `json:"start"`
	End     time.Time      `json:"end"`
	Records []PeriodRecord `json:"records"`
}

// Final returns the last period record. The engine never produces an
// empty ledger.
func (l *Ledger) Final() PeriodRecord {
	return l.Records[len(l.Records)-1]
}

// TotalInvested returns the cumulative cash invested over the run.
func (l *Ledger) TotalInvested() float64 {
	return l.Final().CashInvested
}

// FinalValue returns the portfolio wealth at the last period: market
// value of holdings plus realized divestment proceeds. Counting
// proceeds keeps divesting strategies comparable with hold-only ones.
func (l *Ledger) FinalValue() float64 {
	final := l.Final()
	return final.MarketValue + final.RealizedProceeds
}

// Values returns the per-period wealth curve, market value plus
// realized proceeds.
func (l *Ledger) Values() []float64 {
	values := make([]float64, len(l.Records))
	for i, r := range l.Records {
		values[i] = r.MarketValue + r.RealizedProceeds
	}
	return values
}

// simulationState is the mutable portfolio state owned exclusively by one
// engine run. It is evolved once per period and discarded when the ledger
// is built.
type simulationState struct {
	periodIndex        int
	unitsHeld          float64
	cashInvested       float64
	realizedProceeds   float64
	hasDivested        bool
	periodsSinceDivest int
}
