package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// CSVProvider implements Provider for CSV files. The layout is
// detected per file: two columns parse as "timestamp,price", six or
// more as OHLCV.
type CSVProvider struct {
	format *CSVColumnMapping
}

// NewCSVProvider creates a CSV provider that detects the file layout.
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{}
}

// NewCSVProviderWithFormat creates a CSV provider pinned to one layout.
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{format: &format}
}

// Name returns the name of the provider.
func (p *CSVProvider) Name() string {
	return "CSV Provider"
}

// LoadCandles loads historical candles from a CSV file.
func (p *CSVProvider) LoadCandles(source string) ([]types.Candle, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	format := p.format
	if format == nil {
		detected := detectFormat(header)
		format = &detected
	}

	var candles []types.Candle
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		if len(record) < format.MinColumns {
			log.Warn().Int("line", lineNum).Int("columns", len(record)).
				Msg("insufficient columns, skipping row")
			continue
		}

		candle, err := parseRow(record, *format)
		if err != nil {
			log.Warn().Int("line", lineNum).Err(err).Msg("skipping row")
			continue
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

func detectFormat(header []string) CSVColumnMapping {
	if len(header) >= OHLCVCSVFormat.MinColumns {
		return OHLCVCSVFormat
	}
	return PriceCSVFormat
}

func parseRow(record []string, format CSVColumnMapping) (types.Candle, error) {
	timestamp, err := parseTimestamp(record[format.TimestampCol], format.DateFormat)
	if err != nil {
		return types.Candle{}, fmt.Errorf("invalid timestamp %q: %w", record[format.TimestampCol], err)
	}

	open, err := strconv.ParseFloat(record[format.OpenCol], 64)
	if err != nil {
		return types.Candle{}, fmt.Errorf("invalid open price %q: %w", record[format.OpenCol], err)
	}
	high, err := strconv.ParseFloat(record[format.HighCol], 64)
	if err != nil {
		return types.Candle{}, fmt.Errorf("invalid high price %q: %w", record[format.HighCol], err)
	}
	low, err := strconv.ParseFloat(record[format.LowCol], 64)
	if err != nil {
		return types.Candle{}, fmt.Errorf("invalid low price %q: %w", record[format.LowCol], err)
	}
	closePrice, err := strconv.ParseFloat(record[format.CloseCol], 64)
	if err != nil {
		return types.Candle{}, fmt.Errorf("invalid close price %q: %w", record[format.CloseCol], err)
	}

	volume := 0.0
	if format.VolumeCol >= 0 {
		volume, err = strconv.ParseFloat(record[format.VolumeCol], 64)
		if err != nil {
			return types.Candle{}, fmt.Errorf("invalid volume %q: %w", record[format.VolumeCol], err)
		}
	}

	if open <= 0 || high <= 0 || low <= 0 || closePrice <= 0 {
		return types.Candle{}, fmt.Errorf("non-positive price")
	}
	if high < low || high < open || high < closePrice || low > open || low > closePrice {
		return types.Candle{}, fmt.Errorf("inconsistent OHLC bounds")
	}

	return types.Candle{
		Timestamp: timestamp,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
	}, nil
}

func parseTimestamp(raw, preferred string) (time.Time, error) {
	layouts := []string{preferred, "2006-01-02 15:04:05", "2006-01-02", time.RFC3339}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ValidateCandles validates the integrity of loaded candles.
func (p *CSVProvider) ValidateCandles(candles []types.Candle) error {
	if len(candles) == 0 {
		return fmt.Errorf("no candles provided")
	}

	for i, candle := range candles {
		if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
			return fmt.Errorf("invalid candle at index %d: prices must be positive", i)
		}
		if candle.High < candle.Low {
			return fmt.Errorf("invalid candle at index %d: high (%.4f) cannot be less than low (%.4f)",
				i, candle.High, candle.Low)
		}
		if i > 0 && candle.Timestamp.Before(candles[i-1].Timestamp) {
			return fmt.Errorf("invalid timestamp sequence at index %d: candles must be in chronological order", i)
		}
	}
	return nil
}
