package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/strategy-lab/dca-backtest/internal/backtest"
	"github.com/strategy-lab/dca-backtest/internal/logger"
	"github.com/strategy-lab/dca-backtest/internal/monitoring"
	"github.com/strategy-lab/dca-backtest/internal/stats"
	"github.com/strategy-lab/dca-backtest/pkg/config"
	"github.com/strategy-lab/dca-backtest/pkg/data"
	"github.com/strategy-lab/dca-backtest/pkg/reporting"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

const (
	AppName    = "DCA Compare"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewCompareFlags()
	flag.Parse()

	if err := ValidateCompareFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "flag validation error: %v\n", err)
		os.Exit(1)
	}

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}
	if *flags.ShowHelp {
		printUsageHelp()
		return
	}

	loadEnvironment(*flags.EnvFile)
	logger.Setup(*flags.LogLevel)

	if *flags.MetricsAddr != "" {
		go serveMetrics(*flags.MetricsAddr)
	}

	if err := run(flags); err != nil {
		log.Fatal().Err(err).Msg("comparison run failed")
	}
}

func run(flags *CompareFlags) error {
	freq, err := types.ParseFrequency(*flags.Frequency)
	if err != nil {
		return err
	}

	manager := data.NewManager()
	series, err := manager.LoadSeries(*flags.DataFile, *flags.Symbol, freq)
	if err != nil {
		return fmt.Errorf("failed to load price series: %w", err)
	}
	log.Info().Str("symbol", series.Symbol()).Int("observations", series.Len()).
		Time("start", series.Start()).Time("end", series.End()).Msg("loaded price series")

	variants, err := parseVariants(*flags.Variants)
	if err != nil {
		return err
	}
	baseline := config.Variant(*flags.Baseline)

	configs, err := buildConfigs(flags, variants, freq)
	if err != nil {
		return err
	}

	// Full-range run per variant for the headline comparison.
	results := backtest.RunBatch(series, configs, *flags.Workers, *flags.RiskFreeRate)
	summaries := make([]*reporting.StrategySummary, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			log.Error().Str("job", res.ID).Err(res.Err).Msg("backtest failed")
			continue
		}
		summaries = append(summaries, &reporting.StrategySummary{
			Ledger:  res.Ledger,
			Metrics: res.Metrics,
		})
	}
	if len(summaries) == 0 {
		return fmt.Errorf("no backtest produced results")
	}

	comparisons, err := runSignificance(flags, series, configs, baseline)
	if err != nil {
		log.Warn().Err(err).Msg("significance testing skipped")
	}

	reportCfg := reporting.Config{
		EnableConsole:   true,
		EnableFiles:     !*flags.ConsoleOnly,
		OutputDirectory: *flags.OutputDir,
		CSVEnabled:      true,
		JSONEnabled:     true,
		ExcelEnabled:    true,
	}
	return reporting.NewManager(reportCfg).Report(summaries, comparisons, series.Symbol(), string(freq))
}

// buildConfigs creates one config per selected variant, applying flag
// and config-file overrides.
func buildConfigs(flags *CompareFlags, variants []config.Variant, freq types.Frequency) ([]*config.StrategyConfig, error) {
	var fileCfg *config.StrategyConfig
	if *flags.ConfigFile != "" {
		loaded, err := config.LoadStrategyConfig(*flags.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		fileCfg = loaded
	}

	start, err := parseDate(*flags.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := parseDate(*flags.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}

	configs := make([]*config.StrategyConfig, 0, len(variants))
	for _, v := range variants {
		cfg := config.NewStrategyConfig(v)
		if fileCfg != nil && fileCfg.Variant == v {
			cfg = fileCfg.Clone()
		}
		cfg.BaseAmount = *flags.BaseAmount
		cfg.Frequency = freq
		cfg.Start = start
		cfg.End = end
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// runSignificance scores every variant over the same sampled
// sub-windows and t-tests each candidate against the baseline.
func runSignificance(flags *CompareFlags, series *types.PriceSeries, configs []*config.StrategyConfig, baseline config.Variant) ([]*stats.ComparisonResult, error) {
	sampler := stats.NewWindowSampler(*flags.Seed)
	windows, err := sampler.RandomWindows(series, *flags.Windows, *flags.MinYears, *flags.MaxYears)
	if err != nil {
		return nil, err
	}
	log.Info().Int("windows", len(windows)).Int64("seed", *flags.Seed).
		Msg("sampled sub-windows for significance testing")

	// One job per window per variant, all through the same pool.
	windowConfigs := make([]*config.StrategyConfig, 0, len(windows)*len(configs))
	for _, cfg := range configs {
		for _, w := range windows {
			wc := cfg.Clone()
			wc.Start = w.Start
			wc.End = w.End
			windowConfigs = append(windowConfigs, wc)
		}
	}

	results := backtest.RunBatch(series, windowConfigs, *flags.Workers, *flags.RiskFreeRate)

	outcomes := make(map[config.Variant][]float64)
	for _, res := range results {
		if res.Err != nil || res.Metrics == nil {
			continue
		}
		v := res.Ledger.Variant
		outcomes[v] = append(outcomes[v], outcomeValue(res.Metrics, *flags.Metric))
	}

	baselineOutcomes, ok := outcomes[baseline]
	if !ok {
		return nil, fmt.Errorf("baseline variant %s produced no outcomes", baseline)
	}

	candidates := make(map[string][]float64)
	for v, vals := range outcomes {
		if v == baseline {
			continue
		}
		candidates[string(v)] = vals
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	tester := stats.NewTester(*flags.Alpha)
	return tester.CompareAll(string(baseline), baselineOutcomes, candidates)
}

func outcomeValue(m *backtest.MetricsRecord, metric string) float64 {
	switch metric {
	case "cagr":
		return m.AnnualizedReturn
	case "sharpe":
		return m.SharpeRatio
	default:
		return m.TotalReturn
	}
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	log.Info().Str("addr", addr).Msg("serving Prometheus metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn().Err(err).Msg("metrics server stopped")
	}
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Debug().Str("file", envFile).Err(err).Msg("no environment file loaded")
	}
}

func printUsageHelp() {
	fmt.Printf(`%s v%s

Compares dollar-cost-averaging strategy variants over historical price
data and reports whether any variant beats the pure-DCA baseline with
statistical significance.

Usage:
  dca-compare -data prices.csv [options]

Examples:
  dca-compare -data data/btc_daily.csv -symbol BTCUSDT -frequency M
  dca-compare -data data/spx.csv -variants v0,v1,v5 -baseline v0
  dca-compare -data data/btc_daily.csv -windows 500 -seed 7 -metric cagr
  dca-compare -data data/btc_daily.csv -start 2015-01-01 -end 2024-12-31

Options:
`, AppName, AppVersion)
	flag.PrintDefaults()
}
