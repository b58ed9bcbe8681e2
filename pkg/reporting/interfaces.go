package reporting

import (
	"github.com/strategy-lab/dca-backtest/internal/backtest"
	"github.com/strategy-lab/dca-backtest/internal/stats"
)

// Package reporting renders backtest and comparison results to the
// console and to CSV, JSON, and Excel files.

// StrategySummary pairs one completed backtest with its metrics.
type StrategySummary struct {
	Ledger  *backtest.Ledger
	Metrics *backtest.MetricsRecord
}

// ConsoleReporter defines console output.
type ConsoleReporter interface {
	PrintSummary(summary *StrategySummary)
	PrintComparison(summaries []*StrategySummary)
	PrintSignificance(results []*stats.ComparisonResult)
}

// FileReporter defines file output.
type FileReporter interface {
	WriteLedgerCSV(ledger *backtest.Ledger, path string) error
	WriteSummaryJSON(summaries []*StrategySummary, comparisons []*stats.ComparisonResult, path string) error
	WriteWorkbook(summaries []*StrategySummary, comparisons []*stats.ComparisonResult, path string) error
}

// PathManager defines output path management.
type PathManager interface {
	DefaultOutputDir(symbol, frequency string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces.
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// Config selects which outputs a reporting run produces.
type Config struct {
	EnableConsole   bool
	EnableFiles     bool
	OutputDirectory string
	CSVEnabled      bool
	JSONEnabled     bool
	ExcelEnabled    bool
}
