package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/strategy-lab/dca-backtest/internal/logger"
	"github.com/strategy-lab/dca-backtest/pkg/data"
	"github.com/strategy-lab/dca-backtest/pkg/types"
)

const (
	AppName    = "DCA Fetch Data"
	AppVersion = "1.0.0"
)

func main() {
	symbol := flag.String("symbol", "BTCUSDT", "Trading pair symbol")
	category := flag.String("category", "spot", "Market category (spot, linear, inverse)")
	interval := flag.String("interval", "D", "Bybit kline interval (D, W, M)")
	startDate := flag.String("start", "", "Fetch start date (YYYY-MM-DD)")
	endDate := flag.String("end", "", "Fetch end date (YYYY-MM-DD, default: now)")
	dataRoot := flag.String("data-root", "data", "Root directory for cached data files")
	envFile := flag.String("env", ".env", "Environment file to load")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	if err := godotenv.Load(*envFile); err == nil {
		log.Debug().Str("file", *envFile).Msg("environment file loaded")
	}
	logger.Setup(*logLevel)

	if err := run(*symbol, *category, *interval, *startDate, *endDate, *dataRoot); err != nil {
		log.Fatal().Err(err).Msg("fetch failed")
	}
}

func run(symbol, category, interval, startDate, endDate, dataRoot string) error {
	start, err := parseDate(startDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := parseDate(endDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	provider := data.NewBybitProvider(data.BybitConfig{
		APIKey:    os.Getenv("BYBIT_API_KEY"),
		APISecret: os.Getenv("BYBIT_API_SECRET"),
		Category:  category,
		Interval:  interval,
		Start:     start,
		End:       end,
	})

	candles, err := provider.LoadCandles(symbol)
	if err != nil {
		return err
	}
	if err := provider.ValidateCandles(candles); err != nil {
		return err
	}

	locator := data.NewDefaultFileLocator()
	path := locator.DataFilePath(dataRoot, "bybit", symbol, interval)
	if err := writeCandlesCSV(candles, path); err != nil {
		return err
	}

	log.Info().Str("symbol", symbol).Int("candles", len(candles)).Str("path", path).
		Msg("candles written")
	return nil
}

func writeCandlesCSV(candles []types.Candle, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create data file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, c := range candles {
		row := []string{
			c.Timestamp.Format("2006-01-02 15:04:05"),
			formatFloat(c.Open),
			formatFloat(c.High),
			formatFloat(c.Low),
			formatFloat(c.Close),
			formatFloat(c.Volume),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}
