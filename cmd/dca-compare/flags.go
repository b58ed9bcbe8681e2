package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/strategy-lab/dca-backtest/pkg/config"
)

// CompareFlags holds all command line flags for the comparison command.
type CompareFlags struct {
	// Data source
	DataFile  *string
	Symbol    *string
	Frequency *string

	// Strategy selection
	Variants   *string
	Baseline   *string
	ConfigFile *string

	// Simulation parameters
	BaseAmount   *float64
	StartDate    *string
	EndDate      *string
	RiskFreeRate *float64

	// Significance testing
	Alpha      *float64
	Windows    *int
	MinYears   *float64
	MaxYears   *float64
	Seed       *int64
	Metric     *string

	// Execution
	Workers *int

	// Output options
	OutputDir   *string
	ConsoleOnly *bool
	EnvFile     *string
	LogLevel    *string
	MetricsAddr *string

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewCompareFlags creates and registers all command line flags.
func NewCompareFlags() *CompareFlags {
	return &CompareFlags{
		DataFile:  flag.String("data", "", "Path to historical data file (CSV)"),
		Symbol:    flag.String("symbol", "BTCUSDT", "Asset symbol"),
		Frequency: flag.String("frequency", "M", "Contribution frequency (D, W, M, Q)"),

		Variants:   flag.String("variants", "all", "Comma-separated strategy variants (v0,v1,v2,v3,v5) or 'all'"),
		Baseline:   flag.String("baseline", "v0", "Baseline variant for significance testing"),
		ConfigFile: flag.String("config", "", "Path to strategy configuration file (JSON)"),

		BaseAmount:   flag.Float64("base-amount", config.DefaultBaseAmount, "Base contribution per period"),
		StartDate:    flag.String("start", "", "Simulation start date (YYYY-MM-DD, default: series start)"),
		EndDate:      flag.String("end", "", "Simulation end date (YYYY-MM-DD, default: series end)"),
		RiskFreeRate: flag.Float64("risk-free", config.DefaultRiskFreeRate, "Annual risk-free rate for Sharpe and Sortino"),

		Alpha:    flag.Float64("alpha", 0.05, "Significance level for t-tests"),
		Windows:  flag.Int("windows", 300, "Number of random sub-windows for significance sampling"),
		MinYears: flag.Float64("min-years", 3, "Minimum sub-window length in years"),
		MaxYears: flag.Float64("max-years", 20, "Maximum sub-window length in years"),
		Seed:     flag.Int64("seed", 42, "Random seed for window sampling"),
		Metric:   flag.String("metric", "total_return", "Outcome metric for significance testing (total_return, cagr, sharpe)"),

		Workers: flag.Int("workers", 0, "Number of parallel workers (0 = number of CPUs)"),

		OutputDir:   flag.String("output", "", "Output directory (default: results/SYMBOL_freq)"),
		ConsoleOnly: flag.Bool("console-only", false, "Console output only, no files"),
		EnvFile:     flag.String("env", ".env", "Environment file to load"),
		LogLevel:    flag.String("log-level", "info", "Log level (debug, info, warn, error)"),
		MetricsAddr: flag.String("metrics-addr", "", "Expose Prometheus metrics on this address during the run (e.g. :9090)"),

		ShowVersion: flag.Bool("version", false, "Show version information"),
		ShowHelp:    flag.Bool("help-detailed", false, "Show detailed usage help"),
	}
}

// ValidateCompareFlags checks flag combinations before the run starts.
func ValidateCompareFlags(flags *CompareFlags) error {
	if *flags.ShowVersion || *flags.ShowHelp {
		return nil
	}

	if strings.TrimSpace(*flags.DataFile) == "" {
		return fmt.Errorf("-data is required")
	}

	if _, err := parseVariants(*flags.Variants); err != nil {
		return err
	}

	baseline := config.Variant(strings.ToLower(strings.TrimSpace(*flags.Baseline)))
	if !baselineKnown(baseline) {
		return fmt.Errorf("unknown baseline variant: %s", *flags.Baseline)
	}

	if *flags.Alpha <= 0 || *flags.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %g", *flags.Alpha)
	}

	switch *flags.Metric {
	case "total_return", "cagr", "sharpe":
	default:
		return fmt.Errorf("unknown outcome metric: %s", *flags.Metric)
	}

	return nil
}

func parseVariants(raw string) ([]config.Variant, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return append([]config.Variant(nil), config.Variants...), nil
	}

	var variants []config.Variant
	seen := make(map[config.Variant]bool)
	for _, part := range strings.Split(raw, ",") {
		v := config.Variant(strings.TrimSpace(part))
		if !baselineKnown(v) {
			return nil, fmt.Errorf("unknown strategy variant: %s", part)
		}
		if !seen[v] {
			variants = append(variants, v)
			seen[v] = true
		}
	}
	return variants, nil
}

func baselineKnown(v config.Variant) bool {
	for _, known := range config.Variants {
		if v == known {
			return true
		}
	}
	return false
}
