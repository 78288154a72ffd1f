package config

import "github.com/spf13/pflag"

// PriceConfig holds configuration for the price command.
type PriceConfig struct {
	Pricing  PricingConfig
	LogLevel string
}

// LoadPrice merges config file, environment variables, and flags into PriceConfig.
func LoadPrice(cfgFile string, flags *pflag.FlagSet) (PriceConfig, error) {
	v, err := newViper(cfgFile, flags, pricingDefaults())
	if err != nil {
		return PriceConfig{}, err
	}
	price, err := loadPricing(v)
	if err != nil {
		return PriceConfig{}, err
	}
	return PriceConfig{Pricing: price, LogLevel: v.GetString("log-level")}, nil
}
