package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPathManager implements output path management.
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager.
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// DefaultOutputDir returns the default output directory for a symbol
// and contribution frequency, e.g. results/BTCUSDT_m.
func (p *DefaultPathManager) DefaultOutputDir(symbol, frequency string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	f := strings.ToLower(strings.TrimSpace(frequency))
	if s == "" {
		s = "UNKNOWN"
	}
	if f == "" {
		f = "unknown"
	}
	return filepath.Join("results", fmt.Sprintf("%s_%s", s, f))
}

// EnsureDirectoryExists creates the parent directory of path if needed.
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// DefaultOutputDir is a package-level convenience wrapper.
func DefaultOutputDir(symbol, frequency string) string {
	return NewDefaultPathManager().DefaultOutputDir(symbol, frequency)
}
