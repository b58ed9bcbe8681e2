package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/strategy-lab/dca-backtest/internal/backtest"
	"github.com/strategy-lab/dca-backtest/internal/stats"
)

// DefaultJSONReporter writes a machine-readable run summary.
type DefaultJSONReporter struct {
	paths *DefaultPathManager
}

// NewDefaultJSONReporter creates a new JSON reporter.
func NewDefaultJSONReporter() *DefaultJSONReporter {
	return &DefaultJSONReporter{paths: NewDefaultPathManager()}
}

type jsonSummary struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Symbol      string                    `json:"symbol"`
	Strategies  []jsonStrategy            `json:"strategies"`
	Comparisons []*stats.ComparisonResult `json:"comparisons,omitempty"`
}

type jsonStrategy struct {
	Strategy string                  `json:"strategy"`
	Variant  string                  `json:"variant"`
	Start    time.Time               `json:"start"`
	End      time.Time               `json:"end"`
	Metrics  *backtest.MetricsRecord `json:"metrics"`
}

// WriteSummaryJSON writes all strategy metrics plus significance
// results to one JSON document.
func (r *DefaultJSONReporter) WriteSummaryJSON(summaries []*StrategySummary, comparisons []*stats.ComparisonResult, path string) error {
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	doc := jsonSummary{
		GeneratedAt: time.Now().UTC(),
		Comparisons: comparisons,
	}
	if len(summaries) > 0 {
		doc.Symbol = summaries[0].Ledger.Symbol
	}
	for _, s := range summaries {
		doc.Strategies = append(doc.Strategies, jsonStrategy{
			Strategy: s.Ledger.Strategy,
			Variant:  string(s.Ledger.Variant),
			Start:    s.Ledger.Start,
			End:      s.Ledger.End,
			Metrics:  s.Metrics,
		})
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}
