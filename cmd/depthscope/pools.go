package main

import (
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

func newPoolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List every pool of a coin pair with its USD value",
		RunE:  runPools,
	}

	cmd.Flags().String("coin-a", "0x2::sui::SUI", "first coin type or token address")
	cmd.Flags().String("coin-b", "", "second coin type or token address")
	addSourceFlags(cmd)
	addPricingFlags(cmd)
	addOutputFlags(cmd, "./pools")
	return cmd
}

func runPools(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPools(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.CoinA == "" || cfg.CoinB == "" {
		return fmt.Errorf("coin-a and coin-b are required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSource(ctx, cfg.Source, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	conv, err := resolveConverter(ctx, cfg.Pricing, logger)
	if err != nil {
		return err
	}

	js := storage.NewJSONStorage("", cfg.OutDir)
	sink, closeSink, err := openSinks(ctx, js, cfg.PGDSN, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	builder := &snapshot.Builder{Source: src, Logger: logger, Converter: conv}
	entries, err := builder.BuildPoolList(ctx, cfg.CoinA, cfg.CoinB)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	symbolA, symbolB := entries[0].SymbolA, entries[0].SymbolB
	if err := sink.PutPoolList(ctx, symbolA, symbolB, entries); err != nil {
		return fmt.Errorf("store pool list: %w", err)
	}

	logger.Info("pools done", zap.Int("pools", len(entries)), zap.String("path", js.LastPath()))
	fmt.Fprintln(cmd.OutOrStdout(), js.LastPath())
	return nil
}
