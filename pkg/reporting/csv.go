package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/strategy-lab/dca-backtest/internal/backtest"
)

// DefaultCSVReporter writes ledgers and comparison rows as CSV files.
type DefaultCSVReporter struct {
	paths *DefaultPathManager
}

// NewDefaultCSVReporter creates a new CSV reporter.
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{paths: NewDefaultPathManager()}
}

// WriteLedgerCSV writes every period record of a ledger.
func (r *DefaultCSVReporter) WriteLedgerCSV(ledger *backtest.Ledger, path string) error {
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"date", "price", "contribution", "multiplier", "units_bought",
		"units_divested", "proceeds", "units_held", "cash_invested",
		"realized_proceeds", "market_value", "note",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range ledger.Records {
		row := []string{
			rec.Timestamp.Format("2006-01-02"),
			formatFloat(rec.Price),
			formatFloat(rec.Contribution),
			formatFloat(rec.Multiplier),
			formatFloat(rec.UnitsBought),
			formatFloat(rec.UnitsDivested),
			formatFloat(rec.Proceeds),
			formatFloat(rec.UnitsHeld),
			formatFloat(rec.CashInvested),
			formatFloat(rec.RealizedProceeds),
			formatFloat(rec.MarketValue),
			rec.Note,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return w.Error()
}

// WriteComparisonCSV writes one metrics row per strategy.
func (r *DefaultCSVReporter) WriteComparisonCSV(summaries []*StrategySummary, path string) error {
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"strategy", "variant", "total_invested", "final_value", "total_return",
		"annualized_return", "volatility", "max_drawdown", "sharpe_ratio",
		"sortino_ratio", "calmar_ratio", "win_rate", "periods",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range summaries {
		m := s.Metrics
		row := []string{
			s.Ledger.Strategy,
			string(s.Ledger.Variant),
			formatFloat(m.TotalInvested),
			formatFloat(m.FinalValue),
			formatFloat(m.TotalReturn),
			formatFloat(m.AnnualizedReturn),
			formatFloat(m.Volatility),
			formatFloat(m.MaxDrawdown),
			formatFloat(m.SharpeRatio),
			formatFloat(m.SortinoRatio),
			formatFloat(m.CalmarRatio),
			formatFloat(m.WinRate),
			strconv.Itoa(m.TotalPeriods),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
