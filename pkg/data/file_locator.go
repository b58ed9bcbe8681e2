package data

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileLocator finds cached data files on disk.
type FileLocator interface {
	// FindDataFile locates the candle file for a source and symbol,
	// returning an empty string when none exists.
	FindDataFile(dataRoot, source, symbol, interval string) string

	// DataFilePath returns where the candle file for a source and
	// symbol belongs, whether or not it exists yet.
	DataFilePath(dataRoot, source, symbol, interval string) string
}

// DefaultFileLocator implements FileLocator against the local
// filesystem. Structure: data/{source}/{symbol}/{interval}/candles.csv
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator.
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// DataFilePath returns the canonical location of a candle file.
func (f *DefaultFileLocator) DataFilePath(dataRoot, source, symbol, interval string) string {
	return filepath.Join(dataRoot, strings.ToLower(source), strings.ToUpper(symbol), interval, "candles.csv")
}

// FindDataFile locates an existing candle file, returning an empty
// string when the file is missing.
func (f *DefaultFileLocator) FindDataFile(dataRoot, source, symbol, interval string) string {
	path := f.DataFilePath(dataRoot, source, symbol, interval)
	if _, err := os.Stat(path); err == nil {
		return path
	}

	log.Warn().Str("source", source).Str("symbol", symbol).Str("interval", interval).
		Str("path", path).Msg("no data file found")
	return ""
}
