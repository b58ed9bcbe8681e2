package backtest

import (
	"math"

	"github.com/strategy-lab/dca-backtest/internal/errors"
)

const daysPerYear = 365.25

// MetricsRecord summarizes the performance of one completed backtest.
type MetricsRecord struct {
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	Volatility       float64 `json:"volatility"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	SortinoRatio     float64 `json:"sortino_ratio"`
	CalmarRatio      float64 `json:"calmar_ratio"`
	WinRate          float64 `json:"win_rate"`
	FinalValue       float64 `json:"final_value"`
	TotalInvested    float64 `json:"total_invested"`
	RealizedProceeds float64 `json:"realized_proceeds"`
	AverageCost      float64 `json:"average_cost"`
	TotalPeriods     int     `json:"total_periods"`
	InvestmentYears  float64 `json:"investment_years"`
}

// Calculator derives performance metrics from ledgers. The risk-free
// rate feeds the Sharpe and Sortino ratios.
type Calculator struct {
	RiskFreeRate float64
}

// NewCalculator creates a metrics calculator with the given annual
// risk-free rate.
func NewCalculator(riskFreeRate float64) *Calculator {
	return &Calculator{RiskFreeRate: riskFreeRate}
}

// Compute calculates the full metrics record for a ledger. Final value
// counts realized proceeds, so divested cash is not penalized. Ratio
// metrics degrade to zero instead of infinity when their denominator
// vanishes.
func (c *Calculator) Compute(ledger *Ledger) (*MetricsRecord, error) {
	if ledger == nil || len(ledger.Records) == 0 {
		return nil, errors.New(errors.KindInsufficientData, "metrics", "compute",
			"ledger has no periods")
	}

	invested := ledger.TotalInvested()
	finalValue := ledger.FinalValue()
	final := ledger.Final()

	rec := &MetricsRecord{
		FinalValue:       finalValue,
		TotalInvested:    invested,
		RealizedProceeds: final.RealizedProceeds,
		TotalPeriods:     len(ledger.Records),
	}

	if invested > 0 {
		rec.TotalReturn = (finalValue - invested) / invested
	}
	if units := totalUnitsBought(ledger); units > 0 {
		rec.AverageCost = invested / units
	}

	days := ledger.End.Sub(ledger.Start).Hours() / 24
	rec.InvestmentYears = days / daysPerYear

	if rec.InvestmentYears > 0 && invested > 0 && finalValue > 0 {
		rec.AnnualizedReturn = math.Pow(finalValue/invested, 1/rec.InvestmentYears) - 1
	}

	values := ledger.Values()
	returns := periodReturns(values)
	periodsPerYear := float64(ledger.Frequency.PeriodsPerYear())

	if sd := sampleStdDev(returns); sd > 0 {
		rec.Volatility = sd * math.Sqrt(periodsPerYear)
	}
	rec.MaxDrawdown = maxDrawdown(values)

	if rec.Volatility > 0 {
		rec.SharpeRatio = (rec.AnnualizedReturn - c.RiskFreeRate) / rec.Volatility
	}
	if dd := downsideDeviation(returns, periodsPerYear); dd > 0 {
		rec.SortinoRatio = (rec.AnnualizedReturn - c.RiskFreeRate) / dd
	}
	if rec.MaxDrawdown > 0 {
		rec.CalmarRatio = rec.AnnualizedReturn / rec.MaxDrawdown
	}
	rec.WinRate = winRate(returns)

	return rec, nil
}

// periodReturns converts the portfolio value path into simple
// period-over-period returns. Contributions inflate these, but every
// variant is measured the same way, so comparisons stay fair.
func periodReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] <= 0 {
			continue
		}
		returns = append(returns, values[i]/values[i-1]-1)
	}
	return returns
}

func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	sumSq := 0.0
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

// maxDrawdown returns the largest peak-to-trough decline of the value
// path as a positive fraction.
func maxDrawdown(values []float64) float64 {
	maxDD := 0.0
	peak := math.Inf(-1)
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// downsideDeviation annualizes the deviation of negative returns only.
func downsideDeviation(returns []float64, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
		}
	}
	return math.Sqrt(sumSq/float64(len(returns))) * math.Sqrt(periodsPerYear)
}

func winRate(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns))
}

func totalUnitsBought(ledger *Ledger) float64 {
	total := 0.0
	for _, r := range ledger.Records {
		total += r.UnitsBought
	}
	return total
}
