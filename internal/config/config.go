package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"depthScope/internal/pricing"
)

const (
	envPrefix        = "DEPTHSCOPE"
	defaultSuiRPC    = "https://fullnode.mainnet.sui.io:443"
	defaultSuiCoin   = "0x2::sui::SUI"
	defaultFeeTiers  = "100,500,3000,10000"
	defaultTimeout   = 10 * time.Second
	defaultThreshold = "0.5,2"
)

// SourceConfig selects where pool data is read from.
type SourceConfig struct {
	Chain        string
	RPCURL       string
	Input        string
	CetusPackage string
	Factory      string
	FeeTiers     []uint32
}

// PricingConfig configures the USD numeraire.
type PricingConfig struct {
	// NumeraireUSD is set when the price was supplied; otherwise the oracle is asked.
	NumeraireUSD    *decimal.Decimal
	NumeraireSymbol string
	NumeraireID     string
	OracleURL       string
	HTTPTimeout     time.Duration
}

// newViper merges config file, environment variables, and flags.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func sourceDefaults() map[string]interface{} {
	return map[string]interface{}{
		"chain":     "sui",
		"rpc":       defaultSuiRPC,
		"fee-tiers": defaultFeeTiers,
	}
}

func pricingDefaults() map[string]interface{} {
	return map[string]interface{}{
		"numeraire-symbol": pricing.DefaultNumeraireSymbol,
		"numeraire-id":     "sui",
		"oracle-url":       pricing.DefaultCoinGeckoURL,
		"http-timeout":     defaultTimeout,
	}
}

func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func loadSource(v *viper.Viper) (SourceConfig, error) {
	tiers, err := ParseFeeTiers(getStringSlice(v, "fee-tiers"))
	if err != nil {
		return SourceConfig{}, err
	}
	return SourceConfig{
		Chain:        strings.ToLower(strings.TrimSpace(v.GetString("chain"))),
		RPCURL:       v.GetString("rpc"),
		Input:        v.GetString("in"),
		CetusPackage: v.GetString("cetus-package"),
		Factory:      v.GetString("factory"),
		FeeTiers:     tiers,
	}, nil
}

func loadPricing(v *viper.Viper) (PricingConfig, error) {
	cfg := PricingConfig{
		NumeraireSymbol: v.GetString("numeraire-symbol"),
		NumeraireID:     v.GetString("numeraire-id"),
		OracleURL:       v.GetString("oracle-url"),
		HTTPTimeout:     v.GetDuration("http-timeout"),
	}
	if raw := strings.TrimSpace(v.GetString("numeraire-usd")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return PricingConfig{}, fmt.Errorf("numeraire-usd: %w", err)
		}
		if !price.IsPositive() {
			return PricingConfig{}, fmt.Errorf("numeraire-usd must be positive")
		}
		cfg.NumeraireUSD = &price
	}
	return cfg, nil
}

// ParseThresholds parses price impact targets in percent.
func ParseThresholds(items []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		d, err := decimal.NewFromString(item)
		if err != nil {
			return nil, fmt.Errorf("threshold %q: %w", item, err)
		}
		if !d.IsPositive() {
			return nil, fmt.Errorf("threshold %q must be positive", item)
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseFeeTiers parses V3 fee tiers in parts per million.
func ParseFeeTiers(items []string) ([]uint32, error) {
	out := make([]uint32, 0, len(items))
	for _, item := range items {
		fee, err := strconv.ParseUint(item, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("fee tier %q: %w", item, err)
		}
		out = append(out, uint32(fee))
	}
	return out, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return splitAndClean(strings.Join(typed, ","))
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
