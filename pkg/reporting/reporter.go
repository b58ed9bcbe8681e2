package reporting

import (
	"path/filepath"

	"github.com/strategy-lab/dca-backtest/internal/backtest"
	"github.com/strategy-lab/dca-backtest/internal/stats"
)

// DefaultReporter implements the complete Reporter interface.
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	json    *DefaultJSONReporter
	excel   *DefaultExcelReporter
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a reporter with all output backends.
func NewDefaultReporter() *DefaultReporter {
	return &DefaultReporter{
		console: NewDefaultConsoleReporter(),
		csv:     NewDefaultCSVReporter(),
		json:    NewDefaultJSONReporter(),
		excel:   NewDefaultExcelReporter(),
		paths:   NewDefaultPathManager(),
	}
}

func (r *DefaultReporter) PrintSummary(summary *StrategySummary) {
	r.console.PrintSummary(summary)
}

func (r *DefaultReporter) PrintComparison(summaries []*StrategySummary) {
	r.console.PrintComparison(summaries)
}

func (r *DefaultReporter) PrintSignificance(results []*stats.ComparisonResult) {
	r.console.PrintSignificance(results)
}

func (r *DefaultReporter) WriteLedgerCSV(ledger *backtest.Ledger, path string) error {
	return r.csv.WriteLedgerCSV(ledger, path)
}

func (r *DefaultReporter) WriteSummaryJSON(summaries []*StrategySummary, comparisons []*stats.ComparisonResult, path string) error {
	return r.json.WriteSummaryJSON(summaries, comparisons, path)
}

func (r *DefaultReporter) WriteWorkbook(summaries []*StrategySummary, comparisons []*stats.ComparisonResult, path string) error {
	return r.excel.WriteWorkbook(summaries, comparisons, path)
}

func (r *DefaultReporter) DefaultOutputDir(symbol, frequency string) string {
	return r.paths.DefaultOutputDir(symbol, frequency)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

// Manager drives a full reporting pass according to its config.
type Manager struct {
	reporter *DefaultReporter
	config   Config
}

// NewManager creates a reporting manager.
func NewManager(config Config) *Manager {
	return &Manager{
		reporter: NewDefaultReporter(),
		config:   config,
	}
}

// Report renders every enabled output for a comparison run.
func (m *Manager) Report(summaries []*StrategySummary, comparisons []*stats.ComparisonResult, symbol, frequency string) error {
	if m.config.EnableConsole {
		m.reporter.PrintComparison(summaries)
		m.reporter.PrintSignificance(comparisons)
	}

	if !m.config.EnableFiles {
		return nil
	}

	outputDir := m.config.OutputDirectory
	if outputDir == "" {
		outputDir = m.reporter.DefaultOutputDir(symbol, frequency)
	}

	if m.config.CSVEnabled {
		for _, s := range summaries {
			path := filepath.Join(outputDir, "ledger_"+string(s.Ledger.Variant)+".csv")
			if err := m.reporter.WriteLedgerCSV(s.Ledger, path); err != nil {
				return err
			}
		}
		if err := m.reporter.csv.WriteComparisonCSV(summaries, filepath.Join(outputDir, "comparison.csv")); err != nil {
			return err
		}
	}

	if m.config.JSONEnabled {
		if err := m.reporter.WriteSummaryJSON(summaries, comparisons, filepath.Join(outputDir, "summary.json")); err != nil {
			return err
		}
	}

	if m.config.ExcelEnabled {
		if err := m.reporter.WriteWorkbook(summaries, comparisons, filepath.Join(outputDir, "comparison.xlsx")); err != nil {
			return err
		}
	}

	return nil
}
