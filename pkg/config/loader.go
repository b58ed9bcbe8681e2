package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// fileConfig mirrors StrategyConfig for JSON files, with human-friendly
// date strings (YYYY-MM-DD) instead of RFC 3339 timestamps.
type fileConfig struct {
	Variant    string  `json:"variant"`
	BaseAmount float64 `json:"base_amount"`
	Frequency  string  `json:"frequency"`
	Start      string  `json:"start"`
	End        string  `json:"end"`

	DipLookback    *int     `json:"dip_lookback"`
	DipThreshold1  *float64 `json:"dip_threshold_1"`
	DipMultiplier1 *float64 `json:"dip_multiplier_1"`
	DipThreshold2  *float64 `json:"dip_threshold_2"`
	DipMultiplier2 *float64 `json:"dip_multiplier_2"`

	MAWindow        *int     `json:"ma_window"`
	MAType          *string  `json:"ma_type"`
	AboveMultiplier *float64 `json:"above_multiplier"`
	BelowMultiplier *float64 `json:"below_multiplier"`

	VolWindow         *int     `json:"vol_window"`
	VolLookback       *int     `json:"vol_lookback"`
	HighVolThreshold  *float64 `json:"high_vol_threshold"`
	LowVolThreshold   *float64 `json:"low_vol_threshold"`
	HighVolMultiplier *float64 `json:"high_vol_multiplier"`
	LowVolMultiplier  *float64 `json:"low_vol_multiplier"`
	MinMultiplier     *float64 `json:"min_multiplier"`
	MaxMultiplier     *float64 `json:"max_multiplier"`

	ProfitThreshold *float64 `json:"profit_threshold"`
	SellFraction    *float64 `json:"sell_fraction"`
	CooldownPeriods *int     `json:"cooldown_periods"`
}

// LoadStrategyConfig reads a JSON strategy config file and merges it over
// the variant's defaults. Fields omitted in the file keep their defaults.
func LoadStrategyConfig(path string) (*StrategyConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg := NewStrategyConfig(Variant(fc.Variant))
	if fc.BaseAmount > 0 {
		cfg.BaseAmount = fc.BaseAmount
	}
	if fc.Frequency != "" {
		freq, err := types.ParseFrequency(fc.Frequency)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		cfg.Frequency = freq
	}
	if fc.Start != "" {
		t, err := time.Parse("2006-01-02", fc.Start)
		if err != nil {
			return nil, fmt.Errorf("config %s: invalid start date %q", path, fc.Start)
		}
		cfg.Start = t
	}
	if fc.End != "" {
		t, err := time.Parse("2006-01-02", fc.End)
		if err != nil {
			return nil, fmt.Errorf("config %s: invalid end date %q", path, fc.End)
		}
		cfg.End = t
	}

	setInt(&cfg.DipLookback, fc.DipLookback)
	setFloat(&cfg.DipThreshold1, fc.DipThreshold1)
	setFloat(&cfg.DipMultiplier1, fc.DipMultiplier1)
	setFloat(&cfg.DipThreshold2, fc.DipThreshold2)
	setFloat(&cfg.DipMultiplier2, fc.DipMultiplier2)

	setInt(&cfg.MAWindow, fc.MAWindow)
	setString(&cfg.MAType, fc.MAType)
	setFloat(&cfg.AboveMultiplier, fc.AboveMultiplier)
	setFloat(&cfg.BelowMultiplier, fc.BelowMultiplier)

	setInt(&cfg.VolWindow, fc.VolWindow)
	setInt(&cfg.VolLookback, fc.VolLookback)
	setFloat(&cfg.HighVolThreshold, fc.HighVolThreshold)
	setFloat(&cfg.LowVolThreshold, fc.LowVolThreshold)
	setFloat(&cfg.HighVolMultiplier, fc.HighVolMultiplier)
	setFloat(&cfg.LowVolMultiplier, fc.LowVolMultiplier)
	setFloat(&cfg.MinMultiplier, fc.MinMultiplier)
	setFloat(&cfg.MaxMultiplier, fc.MaxMultiplier)

	setFloat(&cfg.ProfitThreshold, fc.ProfitThreshold)
	setFloat(&cfg.SellFraction, fc.SellFraction)
	setInt(&cfg.CooldownPeriods, fc.CooldownPeriods)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
