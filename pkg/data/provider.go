package data

import (
	"time"

	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// Manager combines provider, filter, and locator behind one interface
// so callers load a ready-to-use price series in a single call.
type Manager struct {
	provider Provider
	filter   Filter
	locator  FileLocator
}

// NewManager creates a manager with a cached CSV provider and default
// components.
func NewManager() *Manager {
	return &Manager{
		provider: NewCachedProvider(NewCSVProvider()),
		filter:   NewDefaultFilter(),
		locator:  NewDefaultFileLocator(),
	}
}

// NewManagerWithProvider creates a manager with a custom provider.
func NewManagerWithProvider(provider Provider) *Manager {
	return &Manager{
		provider: NewCachedProvider(provider),
		filter:   NewDefaultFilter(),
		locator:  NewDefaultFileLocator(),
	}
}

// LoadSeries loads candles from a source, validates their order, and
// builds an immutable price series from the close prices.
func (m *Manager) LoadSeries(source, symbol string, freq types.Frequency) (*types.PriceSeries, error) {
	candles, err := m.provider.LoadCandles(source)
	if err != nil {
		return nil, err
	}
	if err := m.filter.ValidateTimeSequence(candles); err != nil {
		return nil, err
	}
	return types.NewPriceSeries(symbol, freq, types.CandlesToPoints(candles))
}

// LoadSeriesRange behaves like LoadSeries with the candles narrowed to
// the inclusive date range first.
func (m *Manager) LoadSeriesRange(source, symbol string, freq types.Frequency, start, end time.Time) (*types.PriceSeries, error) {
	candles, err := m.provider.LoadCandles(source)
	if err != nil {
		return nil, err
	}
	candles = m.filter.FilterByDateRange(candles, start, end)
	if err := m.filter.ValidateTimeSequence(candles); err != nil {
		return nil, err
	}
	return types.NewPriceSeries(symbol, freq, types.CandlesToPoints(candles))
}

// FindDataFile locates a cached data file for a symbol.
func (m *Manager) FindDataFile(dataRoot, source, symbol, interval string) string {
	return m.locator.FindDataFile(dataRoot, source, symbol, interval)
}

// Provider returns the underlying data provider.
func (m *Manager) Provider() Provider {
	return m.provider
}

// Filter returns the candle filter.
func (m *Manager) Filter() Filter {
	return m.filter
}
