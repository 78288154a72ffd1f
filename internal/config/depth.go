package config

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

// DepthConfig holds configuration for the depth command.
type DepthConfig struct {
	Source     SourceConfig
	Pricing    PricingConfig
	Pool       string
	Thresholds []decimal.Decimal
	OutDir     string
	PGDSN      string
	Strict     bool
	LogLevel   string
}

// LoadDepth merges config file, environment variables, and flags into DepthConfig.
func LoadDepth(cfgFile string, flags *pflag.FlagSet) (DepthConfig, error) {
	v, err := newViper(cfgFile, flags, merge(sourceDefaults(), pricingDefaults(), map[string]interface{}{
		"thresholds": defaultThreshold,
		"out-dir":    "./ticks",
	}))
	if err != nil {
		return DepthConfig{}, err
	}

	src, err := loadSource(v)
	if err != nil {
		return DepthConfig{}, err
	}
	price, err := loadPricing(v)
	if err != nil {
		return DepthConfig{}, err
	}
	thresholds, err := ParseThresholds(getStringSlice(v, "thresholds"))
	if err != nil {
		return DepthConfig{}, err
	}

	cfg := DepthConfig{
		Source:     src,
		Pricing:    price,
		Pool:       v.GetString("pool"),
		Thresholds: thresholds,
		OutDir:     v.GetString("out-dir"),
		PGDSN:      v.GetString("pg-dsn"),
		Strict:     v.GetBool("strict-monotonic"),
		LogLevel:   v.GetString("log-level"),
	}

	return cfg, nil
}
