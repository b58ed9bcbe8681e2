package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/strategy-lab/dca-backtest/internal/stats"
)

// DefaultConsoleReporter renders summaries as rounded go-pretty tables.
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter.
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// PrintSummary prints the full metrics of one backtest.
func (r *DefaultConsoleReporter) PrintSummary(summary *StrategySummary) {
	m := summary.Metrics

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("BACKTEST RESULTS: %s (%s)", summary.Ledger.Strategy, summary.Ledger.Symbol))
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Total Invested", fmt.Sprintf("$%.2f", m.TotalInvested)},
		{"Final Value", fmt.Sprintf("$%.2f", m.FinalValue)},
		{"Realized Proceeds", fmt.Sprintf("$%.2f", m.RealizedProceeds)},
		{"Average Cost", fmt.Sprintf("$%.4f", m.AverageCost)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"Total Return", fmt.Sprintf("%.2f%%", m.TotalReturn*100)},
		{"Annualized Return", fmt.Sprintf("%.2f%%", m.AnnualizedReturn*100)},
		{"Volatility", fmt.Sprintf("%.2f%%", m.Volatility*100)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdown*100)},
		{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)},
		{"Sortino Ratio", fmt.Sprintf("%.2f", m.SortinoRatio)},
		{"Calmar Ratio", fmt.Sprintf("%.2f", m.CalmarRatio)},
		{"Win Rate", fmt.Sprintf("%.1f%%", m.WinRate*100)},
	})

	t.AppendSeparator()

	t.AppendRows([]table.Row{
		{"Periods", fmt.Sprintf("%d", m.TotalPeriods)},
		{"Years", fmt.Sprintf("%.2f", m.InvestmentYears)},
		{"Range", fmt.Sprintf("%s to %s",
			summary.Ledger.Start.Format("2006-01-02"),
			summary.Ledger.End.Format("2006-01-02"))},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 22, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintComparison prints one row per strategy, side by side.
func (r *DefaultConsoleReporter) PrintComparison(summaries []*StrategySummary) {
	if len(summaries) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("STRATEGY COMPARISON: %s", summaries[0].Ledger.Symbol))
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{
		"Strategy", "Invested", "Final Value", "Total Return", "CAGR",
		"Volatility", "Max DD", "Sharpe", "Win Rate",
	})

	for _, s := range summaries {
		m := s.Metrics
		t.AppendRow(table.Row{
			s.Ledger.Strategy,
			fmt.Sprintf("$%.0f", m.TotalInvested),
			fmt.Sprintf("$%.0f", m.FinalValue),
			fmt.Sprintf("%.2f%%", m.TotalReturn*100),
			fmt.Sprintf("%.2f%%", m.AnnualizedReturn*100),
			fmt.Sprintf("%.2f%%", m.Volatility*100),
			fmt.Sprintf("%.2f%%", m.MaxDrawdown*100),
			fmt.Sprintf("%.2f", m.SharpeRatio),
			fmt.Sprintf("%.1f%%", m.WinRate*100),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintSignificance prints the t-test outcomes of each candidate
// against the baseline.
func (r *DefaultConsoleReporter) PrintSignificance(results []*stats.ComparisonResult) {
	if len(results) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("SIGNIFICANCE VS %s", results[0].Baseline))
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{
		"Candidate", "Mean Diff", "t", "p-value", "95% CI", "Verdict",
	})

	for _, res := range results {
		t.AppendRow(table.Row{
			res.Candidate,
			fmt.Sprintf("%+.4f", res.MeanDifference),
			fmt.Sprintf("%.3f", res.TStatistic),
			fmt.Sprintf("%.4f", res.PValue),
			fmt.Sprintf("[%+.4f, %+.4f]", res.CILow, res.CIHigh),
			verdict(res),
		})
	}

	t.Render()
	fmt.Println()
}

func verdict(res *stats.ComparisonResult) string {
	if !res.Significant {
		return "not significant"
	}
	if res.MeanDifference > 0 {
		return "significantly better"
	}
	return "significantly worse"
}

// PrintComparisonTable is a package-level convenience wrapper.
func PrintComparisonTable(summaries []*StrategySummary) {
	NewDefaultConsoleReporter().PrintComparison(summaries)
}
