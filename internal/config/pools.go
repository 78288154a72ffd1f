package config

import "github.com/spf13/pflag"

// PoolsConfig holds configuration for the pools command.
type PoolsConfig struct {
	Source   SourceConfig
	Pricing  PricingConfig
	CoinA    string
	CoinB    string
	OutDir   string
	PGDSN    string
	LogLevel string
}

// LoadPools merges config file, environment variables, and flags into PoolsConfig.
func LoadPools(cfgFile string, flags *pflag.FlagSet) (PoolsConfig, error) {
	v, err := newViper(cfgFile, flags, merge(sourceDefaults(), pricingDefaults(), map[string]interface{}{
		"coin-a":  defaultSuiCoin,
		"out-dir": "./pools",
	}))
	if err != nil {
		return PoolsConfig{}, err
	}

	src, err := loadSource(v)
	if err != nil {
		return PoolsConfig{}, err
	}
	price, err := loadPricing(v)
	if err != nil {
		return PoolsConfig{}, err
	}

	cfg := PoolsConfig{
		Source:   src,
		Pricing:  price,
		CoinA:    v.GetString("coin-a"),
		CoinB:    v.GetString("coin-b"),
		OutDir:   v.GetString("out-dir"),
		PGDSN:    v.GetString("pg-dsn"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}
