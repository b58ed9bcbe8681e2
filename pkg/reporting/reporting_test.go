package reporting

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/strategy-lab/dca-backtest/internal/backtest"
	"github.com/strategy-lab/dca-backtest/internal/stats"
	"github.com/strategy-lab/dca-backtest/internal/strategy"
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

func sampleSummary(t *testing.T) *StrategySummary {
	t.Helper()

	points := make([]types.PricePoint, 12)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range points {
		points[i] = types.PricePoint{Timestamp: start.AddDate(0, i, 0), Price: 100 + float64(i)}
	}
	series, err := types.NewPriceSeries("BTCUSDT", types.FrequencyMonthly, points)
	require.NoError(t, err)

	cfg := config.NewStrategyConfig(config.VariantPure)
	rule, err := strategy.New(cfg)
	require.NoError(t, err)

	ledger, err := backtest.NewEngine().Run(series, cfg, rule)
	require.NoError(t, err)

	metrics, err := backtest.NewCalculator(config.DefaultRiskFreeRate).Compute(ledger)
	require.NoError(t, err)

	return &StrategySummary{Ledger: ledger, Metrics: metrics}
}

func TestWriteLedgerCSV(t *testing.T) {
	summary := sampleSummary(t)
	path := filepath.Join(t.TempDir(), "nested", "ledger.csv")

	require.NoError(t, NewDefaultCSVReporter().WriteLedgerCSV(summary.Ledger, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(summary.Ledger.Records)+1)

	assert.Equal(t, "date", rows[0][0])
	assert.Equal(t, "note", rows[0][len(rows[0])-1])
	assert.Equal(t, "2020-01-01", rows[1][0])
	assert.Equal(t, "1000.000000", rows[1][2])
}

func TestWriteComparisonCSV(t *testing.T) {
	summary := sampleSummary(t)
	path := filepath.Join(t.TempDir(), "comparison.csv")

	require.NoError(t, NewDefaultCSVReporter().WriteComparisonCSV([]*StrategySummary{summary}, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "strategy", rows[0][0])
	assert.Equal(t, summary.Ledger.Strategy, rows[1][0])
	assert.Equal(t, "v0", rows[1][1])
}

func TestWriteSummaryJSON(t *testing.T) {
	summary := sampleSummary(t)
	path := filepath.Join(t.TempDir(), "summary.json")

	comparisons := []*stats.ComparisonResult{{
		Candidate: "v1",
		Baseline:  "v0",
		PValue:    0.2,
		Alpha:     0.05,
	}}
	require.NoError(t, NewDefaultJSONReporter().WriteSummaryJSON(
		[]*StrategySummary{summary}, comparisons, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Symbol     string `json:"symbol"`
		Strategies []struct {
			Variant string `json:"variant"`
			Metrics *struct {
				TotalInvested float64 `json:"total_invested"`
			} `json:"metrics"`
		} `json:"strategies"`
		Comparisons []struct {
			Candidate string `json:"candidate"`
		} `json:"comparisons"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "BTCUSDT", doc.Symbol)
	require.Len(t, doc.Strategies, 1)
	assert.Equal(t, "v0", doc.Strategies[0].Variant)
	require.NotNil(t, doc.Strategies[0].Metrics)
	assert.Equal(t, 12000.0, doc.Strategies[0].Metrics.TotalInvested)
	require.Len(t, doc.Comparisons, 1)
	assert.Equal(t, "v1", doc.Comparisons[0].Candidate)
}

func TestWriteWorkbook(t *testing.T) {
	summary := sampleSummary(t)
	path := filepath.Join(t.TempDir(), "comparison.xlsx")

	comparisons := []*stats.ComparisonResult{{
		Candidate: "v1",
		Baseline:  "v0",
		PValue:    0.2,
		Alpha:     0.05,
	}}
	require.NoError(t, NewDefaultExcelReporter().WriteWorkbook(
		[]*StrategySummary{summary}, comparisons, path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	sheets := fx.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Significance")
	assert.Contains(t, sheets, summary.Ledger.Strategy)

	name, err := fx.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, summary.Ledger.Strategy, name)
}

func TestDefaultOutputDir(t *testing.T) {
	assert.Equal(t, filepath.Join("results", "BTCUSDT_m"), DefaultOutputDir("btcusdt", "M"))
	assert.Equal(t, filepath.Join("results", "ETHUSDT_w"), DefaultOutputDir(" ethusdt ", "W"))
	assert.Equal(t, filepath.Join("results", "UNKNOWN_unknown"), DefaultOutputDir("", ""))
}

func TestEnsureDirectoryExists(t *testing.T) {
	manager := NewDefaultPathManager()
	path := filepath.Join(t.TempDir(), "a", "b", "file.csv")

	require.NoError(t, manager.EnsureDirectoryExists(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, manager.EnsureDirectoryExists("file.csv"))
}
