package config

import "fmt"

// Validate checks the config's general fields and then the parameters of
// the selected variant against its valid ranges. Parameters belonging to
// other variants are ignored.
func (c *StrategyConfig) Validate() error {
	if !c.Variant.IsValid() {
		return fmt.Errorf("unknown strategy variant %q", c.Variant)
	}
	if c.BaseAmount <= 0 {
		return fmt.Errorf("base amount must be positive, got %v", c.BaseAmount)
	}
	if !c.Frequency.IsValid() {
		return fmt.Errorf("unknown contribution frequency %q", c.Frequency)
	}
	if !c.Start.IsZero() && !c.End.IsZero() && c.End.Before(c.Start) {
		return fmt.Errorf("empty date range: end %s before start %s",
			c.End.Format("2006-01-02"), c.Start.Format("2006-01-02"))
	}

	switch c.Variant {
	case VariantPure:
		return nil
	case VariantDipBuying:
		return c.validateDipBuying()
	case VariantTrendFilter:
		return c.validateTrendFilter()
	case VariantVolatility:
		return c.validateVolatility()
	case VariantProfitTaking:
		return c.validateProfitTaking()
	}
	return nil
}

func (c *StrategyConfig) validateDipBuying() error {
	if c.DipLookback < 1 {
		return fmt.Errorf("dip lookback must be >= 1 period, got %d", c.DipLookback)
	}
	if c.DipThreshold1 < 0 || c.DipThreshold2 < 0 {
		return fmt.Errorf("dip thresholds must be >= 0, got %v and %v", c.DipThreshold1, c.DipThreshold2)
	}
	if c.DipThreshold2 <= c.DipThreshold1 {
		return fmt.Errorf("second dip threshold (%v) must exceed the first (%v)", c.DipThreshold2, c.DipThreshold1)
	}
	// Boost-or-baseline: dip buying never invests below the base amount.
	if c.DipMultiplier1 < 1.0 || c.DipMultiplier2 < 1.0 {
		return fmt.Errorf("dip multipliers must be >= 1.0, got %v and %v", c.DipMultiplier1, c.DipMultiplier2)
	}
	if c.DipMultiplier2 < c.DipMultiplier1 {
		return fmt.Errorf("second dip multiplier (%v) must be >= the first (%v)", c.DipMultiplier2, c.DipMultiplier1)
	}
	return nil
}

func (c *StrategyConfig) validateTrendFilter() error {
	if c.MAWindow < 1 {
		return fmt.Errorf("moving average window must be >= 1 period, got %d", c.MAWindow)
	}
	if c.MAType != "SMA" && c.MAType != "EMA" {
		return fmt.Errorf("moving average type must be SMA or EMA, got %q", c.MAType)
	}
	// Boost-or-baseline on both sides of the average.
	if c.AboveMultiplier < 1.0 || c.BelowMultiplier < 1.0 {
		return fmt.Errorf("trend multipliers must be >= 1.0, got %v and %v", c.AboveMultiplier, c.BelowMultiplier)
	}
	return nil
}

func (c *StrategyConfig) validateVolatility() error {
	if c.VolWindow < 2 {
		return fmt.Errorf("volatility window must be >= 2 periods, got %d", c.VolWindow)
	}
	if c.VolLookback < c.VolWindow {
		return fmt.Errorf("volatility lookback (%d) must be >= volatility window (%d)", c.VolLookback, c.VolWindow)
	}
	if c.LowVolThreshold <= 0 || c.HighVolThreshold <= c.LowVolThreshold {
		return fmt.Errorf("volatility thresholds must satisfy 0 < low (%v) < high (%v)",
			c.LowVolThreshold, c.HighVolThreshold)
	}
	if c.MinMultiplier <= 0 || c.MaxMultiplier < c.MinMultiplier {
		return fmt.Errorf("multiplier bounds must satisfy 0 < min (%v) <= max (%v)",
			c.MinMultiplier, c.MaxMultiplier)
	}
	if c.LowVolMultiplier <= 0 || c.HighVolMultiplier <= 0 {
		return fmt.Errorf("volatility multipliers must be positive, got %v and %v",
			c.LowVolMultiplier, c.HighVolMultiplier)
	}
	return nil
}

func (c *StrategyConfig) validateProfitTaking() error {
	if c.ProfitThreshold <= 0 {
		return fmt.Errorf("profit threshold must be positive, got %v", c.ProfitThreshold)
	}
	if c.SellFraction <= 0 || c.SellFraction > 1 {
		return fmt.Errorf("sell fraction must be in (0, 1], got %v", c.SellFraction)
	}
	if c.CooldownPeriods < 1 {
		return fmt.Errorf("cooldown must be >= 1 period, got %d", c.CooldownPeriods)
	}
	return nil
}
