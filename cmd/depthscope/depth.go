package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"depthScope/internal/config"
	"depthScope/internal/snapshot"
	"depthScope/internal/storage"
)

func newDepthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depth",
		Short: "Compute liquidity depth and price impact thresholds of a pool",
		RunE:  runDepth,
	}

	cmd.Flags().String("pool", "", "pool address")
	cmd.Flags().StringSlice("thresholds", []string{"0.5", "2"}, "price impact targets in percent (comma-separated)")
	cmd.Flags().Bool("strict-monotonic", false, "fail when the swap curve is not monotonic")
	addSourceFlags(cmd)
	addPricingFlags(cmd)
	addOutputFlags(cmd, "./ticks")
	return cmd
}

func runDepth(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDepth(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Pool == "" && cfg.Source.Chain != "file" {
		return fmt.Errorf("pool address is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return depth(ctx, cfg, logger, cmd)
}

func depth(ctx context.Context, cfg config.DepthConfig, logger *zap.Logger, cmd *cobra.Command) error {
	src, err := openSource(ctx, cfg.Source, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	conv, err := resolveConverter(ctx, cfg.Pricing, logger)
	if err != nil {
		return err
	}

	js := storage.NewJSONStorage(cfg.OutDir, "")
	sink, closeSink, err := openSinks(ctx, js, cfg.PGDSN, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	logger.Info("depth start",
		zap.String("chain", cfg.Source.Chain),
		zap.String("pool", cfg.Pool),
		zap.Int("thresholds", len(cfg.Thresholds)),
		zap.String("numeraire_usd", conv.NumeraireUSD.String()),
		zap.String("out_dir", cfg.OutDir),
	)

	builder := &snapshot.Builder{
		Source:     src,
		Logger:     logger,
		Thresholds: cfg.Thresholds,
		Converter:  conv,
		Strict:     cfg.Strict,
	}
	snap, err := builder.BuildDepth(ctx, cfg.Pool)
	if err != nil {
		return err
	}
	if err := sink.PutDepthSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	logger.Info("depth done", zap.String("path", js.LastPath()), zap.Int("price_impacts", len(snap.PriceImpacts)))
	fmt.Fprintln(cmd.OutOrStdout(), js.LastPath())
	return nil
}
