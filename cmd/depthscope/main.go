package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"depthScope/internal/config"
	"depthScope/internal/pricing"
	"depthScope/internal/source"
	"depthScope/internal/storage"
	"depthScope/internal/storage/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "depthscope",
		Short:        "CLMM liquidity depth and slippage scanner",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(newDepthCmd())
	root.AddCommand(newPoolsCmd())
	root.AddCommand(newPriceCmd())
	return root
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("chain", "sui", "pool source (sui, evm, file)")
	cmd.Flags().String("rpc", "", "JSON-RPC URL")
	cmd.Flags().String("in", "", "fixture JSON path for --chain file")
	cmd.Flags().String("cetus-package", "", "Cetus CLMM package id")
	cmd.Flags().String("factory", "", "V3 factory address for --chain evm")
	cmd.Flags().StringSlice("fee-tiers", []string{"100", "500", "3000", "10000"}, "V3 fee tiers to probe (comma-separated)")
}

func addPricingFlags(cmd *cobra.Command) {
	cmd.Flags().String("numeraire-usd", "", "USD price of the numeraire coin, fetched from the oracle when empty")
	cmd.Flags().String("numeraire-symbol", pricing.DefaultNumeraireSymbol, "numeraire coin symbol")
	cmd.Flags().String("numeraire-id", "sui", "oracle id of the numeraire coin")
	cmd.Flags().String("oracle-url", pricing.DefaultCoinGeckoURL, "CoinGecko API base URL")
	cmd.Flags().Duration("http-timeout", 10*time.Second, "oracle HTTP timeout")
}

func addOutputFlags(cmd *cobra.Command, outDir string) {
	cmd.Flags().String("out-dir", outDir, "output directory for JSON snapshots")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func openSource(ctx context.Context, cfg config.SourceConfig, logger *zap.Logger) (*source.CoinCache, error) {
	src, err := source.Open(ctx, source.Options{
		Chain:        cfg.Chain,
		RPCURL:       cfg.RPCURL,
		InputPath:    cfg.Input,
		CetusPackage: cfg.CetusPackage,
		Factory:      cfg.Factory,
		FeeTiers:     cfg.FeeTiers,
	}, logger)
	if err != nil {
		return nil, err
	}
	return source.WithCoinCache(src), nil
}

// resolveConverter uses the configured numeraire price or asks the oracle.
func resolveConverter(ctx context.Context, cfg config.PricingConfig, logger *zap.Logger) (pricing.Converter, error) {
	conv := pricing.Converter{NumeraireSymbol: cfg.NumeraireSymbol}
	if cfg.NumeraireUSD != nil {
		conv.NumeraireUSD = *cfg.NumeraireUSD
		return conv, nil
	}

	oracle := pricing.NewCoinGecko(cfg.OracleURL, cfg.HTTPTimeout, logger)
	price, err := oracle.USDPrice(ctx, cfg.NumeraireID)
	if err != nil {
		return pricing.Converter{}, fmt.Errorf("numeraire price: %w", err)
	}
	logger.Info("numeraire price fetched",
		zap.String("id", cfg.NumeraireID),
		zap.String("usd", price.String()),
	)
	conv.NumeraireUSD = price
	return conv, nil
}

// openSinks always writes JSON and adds Postgres when a DSN is given.
func openSinks(ctx context.Context, js *storage.JSONStorage, pgDSN string, logger *zap.Logger) (storage.Sink, func(), error) {
	if pgDSN == "" {
		return js, func() {}, nil
	}
	store, err := postgres.NewStore(ctx, pgDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	logger.Info("postgres sink enabled", zap.String("pg_dsn", redactDSN(pgDSN)))
	return storage.Multi{js, store}, store.Close, nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
