package data

import (
	"time"

	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// Provider loads historical candles from a source such as a CSV file
// or an exchange API.
type Provider interface {
	// LoadCandles loads historical candles from the specified source.
	LoadCandles(source string) ([]types.Candle, error)

	// ValidateCandles validates the integrity of loaded candles.
	ValidateCandles(candles []types.Candle) error

	// Name returns the name of the provider.
	Name() string
}

// Cache stores loaded candle sets keyed by source.
type Cache interface {
	// Get retrieves candles from cache if available.
	Get(key string) ([]types.Candle, bool)

	// Set stores candles in cache.
	Set(key string, candles []types.Candle)

	// Clear removes all cached entries.
	Clear()

	// Size returns the number of cached entries.
	Size() int
}

// Filter narrows and checks candle sets before they become a series.
type Filter interface {
	// FilterByDateRange keeps candles inside the inclusive date range.
	FilterByDateRange(candles []types.Candle, start, end time.Time) []types.Candle

	// FilterByPeriod keeps the trailing period of candles.
	FilterByPeriod(candles []types.Candle, period time.Duration) []types.Candle

	// ValidateTimeSequence ensures candles are in chronological order.
	ValidateTimeSequence(candles []types.Candle) error
}

// CSVColumnMapping defines the column layout of a CSV data file.
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormat   string
}

// Supported CSV layouts. PriceCSVFormat covers the minimal
// "timestamp,price" export where the single price column doubles as
// every OHLC field.
var (
	PriceCSVFormat = CSVColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      1,
		LowCol:       1,
		CloseCol:     1,
		VolumeCol:    -1,
		MinColumns:   2,
		DateFormat:   "2006-01-02",
	}

	OHLCVCSVFormat = CSVColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      2,
		LowCol:       3,
		CloseCol:     4,
		VolumeCol:    5,
		MinColumns:   6,
		DateFormat:   "2006-01-02 15:04:05",
	}
)
