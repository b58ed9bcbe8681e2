package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/strategy-lab/dca-backtest/internal/backtest"
	"github.com/strategy-lab/dca-backtest/internal/stats"
)

// ExcelStyles holds the style IDs used across workbook sheets.
type ExcelStyles struct {
	Header   int
	Currency int
	Percent  int
	Number   int
}

// DefaultExcelReporter writes a comparison workbook: one summary
// sheet, one significance sheet, and a ledger sheet per strategy.
type DefaultExcelReporter struct {
	paths *DefaultPathManager
}

// NewDefaultExcelReporter creates a new Excel reporter.
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{paths: NewDefaultPathManager()}
}

// WriteWorkbook writes all summaries and comparisons to one xlsx file.
func (r *DefaultExcelReporter) WriteWorkbook(summaries []*StrategySummary, comparisons []*stats.ComparisonResult, path string) error {
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	fx.SetSheetName(fx.GetSheetName(0), summarySheet)

	styles, err := r.createStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summarySheet, summaries, styles); err != nil {
		return err
	}

	if len(comparisons) > 0 {
		const sigSheet = "Significance"
		if _, err := fx.NewSheet(sigSheet); err != nil {
			return err
		}
		if err := r.writeSignificanceSheet(fx, sigSheet, comparisons, styles); err != nil {
			return err
		}
	}

	for _, s := range summaries {
		sheet := s.Ledger.Strategy
		if len(sheet) > 31 {
			sheet = sheet[:31]
		}
		if _, err := fx.NewSheet(sheet); err != nil {
			return err
		}
		if err := r.writeLedgerSheet(fx, sheet, s.Ledger, styles); err != nil {
			return err
		}
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	styles.Header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.Currency, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.Percent, err = fx.NewStyle(&excelize.Style{
		NumFmt: 10,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.Number, err = fx.NewStyle(&excelize.Style{
		NumFmt: 4,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	return styles, err
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, summaries []*StrategySummary, styles ExcelStyles) error {
	header := []interface{}{
		"Strategy", "Variant", "Invested", "Final Value", "Total Return",
		"CAGR", "Volatility", "Max Drawdown", "Sharpe", "Sortino",
		"Calmar", "Win Rate", "Periods",
	}
	if err := writeRow(fx, sheet, 1, header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", cell(len(header), 1), styles.Header); err != nil {
		return err
	}

	for i, s := range summaries {
		m := s.Metrics
		row := i + 2
		values := []interface{}{
			s.Ledger.Strategy,
			string(s.Ledger.Variant),
			m.TotalInvested,
			m.FinalValue,
			m.TotalReturn,
			m.AnnualizedReturn,
			m.Volatility,
			m.MaxDrawdown,
			m.SharpeRatio,
			m.SortinoRatio,
			m.CalmarRatio,
			m.WinRate,
			m.TotalPeriods,
		}
		if err := writeRow(fx, sheet, row, values); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, cell(3, row), cell(4, row), styles.Currency)
		fx.SetCellStyle(sheet, cell(5, row), cell(8, row), styles.Percent)
		fx.SetCellStyle(sheet, cell(9, row), cell(11, row), styles.Number)
		fx.SetCellStyle(sheet, cell(12, row), cell(12, row), styles.Percent)
	}

	return fx.SetColWidth(sheet, "A", "A", 26)
}

func (r *DefaultExcelReporter) writeSignificanceSheet(fx *excelize.File, sheet string, comparisons []*stats.ComparisonResult, styles ExcelStyles) error {
	header := []interface{}{
		"Candidate", "Baseline", "Mean Diff", "t-Statistic", "p-Value",
		"Alpha", "CI Low", "CI High", "Significant",
	}
	if err := writeRow(fx, sheet, 1, header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", cell(len(header), 1), styles.Header); err != nil {
		return err
	}

	for i, res := range comparisons {
		row := i + 2
		values := []interface{}{
			res.Candidate,
			res.Baseline,
			res.MeanDifference,
			res.TStatistic,
			res.PValue,
			res.Alpha,
			res.CILow,
			res.CIHigh,
			res.Significant,
		}
		if err := writeRow(fx, sheet, row, values); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, cell(3, row), cell(8, row), styles.Number)
	}

	return fx.SetColWidth(sheet, "A", "B", 26)
}

func (r *DefaultExcelReporter) writeLedgerSheet(fx *excelize.File, sheet string, ledger *backtest.Ledger, styles ExcelStyles) error {
	header := []interface{}{
		"Date", "Price", "Contribution", "Multiplier", "Units Bought",
		"Units Divested", "Proceeds", "Units Held", "Cash Invested",
		"Realized Proceeds", "Market Value", "Note",
	}
	if err := writeRow(fx, sheet, 1, header); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", cell(len(header), 1), styles.Header); err != nil {
		return err
	}

	for i, rec := range ledger.Records {
		row := i + 2
		values := []interface{}{
			rec.Timestamp.Format("2006-01-02"),
			rec.Price,
			rec.Contribution,
			rec.Multiplier,
			rec.UnitsBought,
			rec.UnitsDivested,
			rec.Proceeds,
			rec.UnitsHeld,
			rec.CashInvested,
			rec.RealizedProceeds,
			rec.MarketValue,
			rec.Note,
		}
		if err := writeRow(fx, sheet, row, values); err != nil {
			return err
		}
		fx.SetCellStyle(sheet, cell(2, row), cell(3, row), styles.Currency)
		fx.SetCellStyle(sheet, cell(4, row), cell(8, row), styles.Number)
		fx.SetCellStyle(sheet, cell(9, row), cell(11, row), styles.Currency)
	}

	fx.SetColWidth(sheet, "A", "A", 12)
	return fx.SetColWidth(sheet, "L", "L", 42)
}

func writeRow(fx *excelize.File, sheet string, row int, values []interface{}) error {
	startCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return fx.SetSheetRow(sheet, startCell, &values)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
