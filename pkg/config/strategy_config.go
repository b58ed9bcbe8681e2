package config

import (
	"time"

	"github.com/strategy-lab/dca-backtest/pkg/types"
)

// Strategy variant identifiers. The set is closed; the strategy factory
// dispatches on these exhaustively.
type Variant string

const (
	VariantPure         Variant = "v0" // fixed periodic contribution
	VariantDipBuying    Variant = "v1" // boost on drawdown from recent high
	VariantTrendFilter  Variant = "v2" // boost below moving average
	VariantVolatility   Variant = "v3" // scale with relative volatility
	VariantProfitTaking Variant = "v5" // divest a fraction above a gain target
)

// Variants lists all supported strategy variants in comparison order.
var Variants = []Variant{VariantPure, VariantDipBuying, VariantTrendFilter, VariantVolatility, VariantProfitTaking}

// IsValid reports whether v names a supported variant.
func (v Variant) IsValid() bool {
	switch v {
	case VariantPure, VariantDipBuying, VariantTrendFilter, VariantVolatility, VariantProfitTaking:
		return true
	}
	return false
}

// Default strategy parameter values. The dip/volatility defaults come from
// a daily-price heritage (252-day lookbacks) rescaled to contribution
// periods: 12 monthly periods cover the same year.
const (
	DefaultBaseAmount = 1000.0

	// V1 dip buying
	DefaultDipLookback    = 12
	DefaultDipThreshold1  = 0.10
	DefaultDipMultiplier1 = 1.5
	DefaultDipThreshold2  = 0.20
	DefaultDipMultiplier2 = 2.0

	// V2 trend filter
	DefaultMAWindow        = 10
	DefaultMAType          = "SMA"
	DefaultAboveMultiplier = 1.0
	DefaultBelowMultiplier = 1.5

	// V3 volatility adjustment
	DefaultVolWindow         = 6
	DefaultVolLookback       = 12
	DefaultHighVolThreshold  = 1.5
	DefaultLowVolThreshold   = 0.8
	DefaultHighVolMultiplier = 1.5
	DefaultLowVolMultiplier  = 0.8
	DefaultMinMultiplier     = 0.5
	DefaultMaxMultiplier     = 3.0

	// V5 profit taking
	DefaultProfitThreshold = 0.30
	DefaultSellFraction    = 0.30
	DefaultCooldownPeriods = 6

	// Metrics
	DefaultRiskFreeRate = 0.02
)

// StrategyConfig selects a strategy variant and carries its parameters,
// the base contribution schedule, and the simulated date range. Built
// before a run, immutable during it.
type StrategyConfig struct {
	Variant    Variant         `json:"variant"`
	BaseAmount float64         `json:"base_amount"`
	Frequency  types.Frequency `json:"frequency"`

	// Date range; zero values mean "full extent of the series".
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`

	// V1 dip buying
	DipLookback    int     `json:"dip_lookback,omitempty"`
	DipThreshold1  float64 `json:"dip_threshold_1,omitempty"`
	DipMultiplier1 float64 `json:"dip_multiplier_1,omitempty"`
	DipThreshold2  float64 `json:"dip_threshold_2,omitempty"`
	DipMultiplier2 float64 `json:"dip_multiplier_2,omitempty"`

	// V2 trend filter
	MAWindow        int     `json:"ma_window,omitempty"`
	MAType          string  `json:"ma_type,omitempty"`
	AboveMultiplier float64 `json:"above_multiplier,omitempty"`
	BelowMultiplier float64 `json:"below_multiplier,omitempty"`

	// V3 volatility adjustment
	VolWindow         int     `json:"vol_window,omitempty"`
	VolLookback       int     `json:"vol_lookback,omitempty"`
	HighVolThreshold  float64 `json:"high_vol_threshold,omitempty"`
	LowVolThreshold   float64 `json:"low_vol_threshold,omitempty"`
	HighVolMultiplier float64 `json:"high_vol_multiplier,omitempty"`
	LowVolMultiplier  float64 `json:"low_vol_multiplier,omitempty"`
	MinMultiplier     float64 `json:"min_multiplier,omitempty"`
	MaxMultiplier     float64 `json:"max_multiplier,omitempty"`

	// V5 profit taking
	ProfitThreshold float64 `json:"profit_threshold,omitempty"`
	SellFraction    float64 `json:"sell_fraction,omitempty"`
	CooldownPeriods int     `json:"cooldown_periods,omitempty"`
}

// NewStrategyConfig returns a config for the given variant with all of its
// parameters at their defaults.
func NewStrategyConfig(variant Variant) *StrategyConfig {
	cfg := &StrategyConfig{
		Variant:    variant,
		BaseAmount: DefaultBaseAmount,
		Frequency:  types.FrequencyMonthly,

		DipLookback:    DefaultDipLookback,
		DipThreshold1:  DefaultDipThreshold1,
		DipMultiplier1: DefaultDipMultiplier1,
		DipThreshold2:  DefaultDipThreshold2,
		DipMultiplier2: DefaultDipMultiplier2,

		MAWindow:        DefaultMAWindow,
		MAType:          DefaultMAType,
		AboveMultiplier: DefaultAboveMultiplier,
		BelowMultiplier: DefaultBelowMultiplier,

		VolWindow:         DefaultVolWindow,
		VolLookback:       DefaultVolLookback,
		HighVolThreshold:  DefaultHighVolThreshold,
		LowVolThreshold:   DefaultLowVolThreshold,
		HighVolMultiplier: DefaultHighVolMultiplier,
		LowVolMultiplier:  DefaultLowVolMultiplier,
		MinMultiplier:     DefaultMinMultiplier,
		MaxMultiplier:     DefaultMaxMultiplier,

		ProfitThreshold: DefaultProfitThreshold,
		SellFraction:    DefaultSellFraction,
		CooldownPeriods: DefaultCooldownPeriods,
	}
	return cfg
}

// Clone returns an independent copy of the config. Runs in a batch each
// hold their own copy so parameter sweeps cannot alias.
func (c *StrategyConfig) Clone() *StrategyConfig {
	clone := *c
	return &clone
}

// DateRange reports the configured range clipped to the series extent.
func (c *StrategyConfig) DateRange(series *types.PriceSeries) (start, end time.Time) {
	start, end = series.Start(), series.End()
	if !c.Start.IsZero() && c.Start.After(start) {
		start = c.Start
	}
	if !c.End.IsZero() && c.End.Before(end) {
		end = c.End
	}
	return start, end
}
