package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"depthScope/internal/clmm"
	"depthScope/internal/depth"
	"depthScope/internal/model"
	"depthScope/internal/pricing"
	"depthScope/internal/source"
)

// Builder assembles depth snapshots and pool listings from a source.
type Builder struct {
	Source     source.Source
	Rates      depth.RateCalculator
	Logger     *zap.Logger
	Thresholds []decimal.Decimal
	Converter  pricing.Converter
	Strict     bool
	Now        func() time.Time
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now().UTC()
	}
	return b.Now().UTC()
}

// BuildDepth reads a pool and its ticks and computes the depth and price
// impact report.
func (b *Builder) BuildDepth(ctx context.Context, poolAddress string) (model.DepthSnapshot, error) {
	if b.Source == nil {
		return model.DepthSnapshot{}, fmt.Errorf("source is required")
	}
	log := b.logger()

	pool, err := b.Source.FetchPool(ctx, poolAddress)
	if err != nil {
		return model.DepthSnapshot{}, fmt.Errorf("fetch pool: %w", err)
	}
	coinA, err := b.Source.FetchCoinMeta(ctx, pool.CoinTypeA)
	if err != nil {
		return model.DepthSnapshot{}, fmt.Errorf("fetch coin a: %w", err)
	}
	coinB, err := b.Source.FetchCoinMeta(ctx, pool.CoinTypeB)
	if err != nil {
		return model.DepthSnapshot{}, fmt.Errorf("fetch coin b: %w", err)
	}
	ticks, err := b.Source.FetchTicks(ctx, pool)
	if err != nil {
		return model.DepthSnapshot{}, fmt.Errorf("fetch ticks: %w", err)
	}
	if len(ticks) == 0 {
		log.Warn("pool has no initialized ticks", zap.String("pool", pool.Address))
	}

	format, err := clmm.FormatForBits(pool.SqrtPriceBits)
	if err != nil {
		return model.DepthSnapshot{}, err
	}
	if pool.CurrentSqrtPrice == nil {
		return model.DepthSnapshot{}, fmt.Errorf("pool %s: current sqrt price is missing", pool.Address)
	}
	currentPrice := format.Price(pool.CurrentSqrtPrice, coinA.Decimals, coinB.Decimals)

	rates := b.Rates
	if rates == nil {
		rates = clmm.Simulator{}
	}
	thresholds := b.Thresholds
	if len(thresholds) == 0 {
		thresholds = depth.DefaultThresholds
	}
	searcher := &depth.Searcher{Rates: rates, Logger: log, Strict: b.Strict}
	impacts, err := depth.PriceImpacts(ctx, searcher, thresholds, depth.PairContext{
		Ticks:        ticks,
		Pool:         pool,
		CoinA:        coinA,
		CoinB:        coinB,
		Converter:    b.Converter,
		CurrentPrice: currentPrice,
	})
	if err != nil {
		return model.DepthSnapshot{}, fmt.Errorf("price impacts: %w", err)
	}

	result, err := depth.Calculate(depth.Input{
		Ticks:            ticks,
		CurrentSqrtPrice: pool.CurrentSqrtPrice,
		SymbolA:          coinA.Symbol,
		SymbolB:          coinB.Symbol,
		DecimalsA:        coinA.Decimals,
		DecimalsB:        coinB.Decimals,
		Converter:        b.Converter,
		Format:           format,
	})
	if err != nil {
		return model.DepthSnapshot{}, fmt.Errorf("liquidity depth: %w", err)
	}

	name := pool.Name
	if name == "" {
		name = UniqueName(coinA.Symbol, coinB.Symbol, pool.TickSpacing)
	}

	snap := model.DepthSnapshot{
		PoolName:              name,
		PoolAddress:           pool.Address,
		FeeTier:               pool.FeeRate,
		TickSpacing:           pool.TickSpacing,
		CurrentTickIndex:      pool.CurrentTickIndex,
		CurrentSqrtPrice:      bigString(pool.CurrentSqrtPrice),
		CurrentPrice:          currentPrice.String(),
		CoinTypeA:             pool.CoinTypeA,
		CoinTypeB:             pool.CoinTypeB,
		SymbolA:               coinA.Symbol,
		SymbolB:               coinB.Symbol,
		DecimalsA:             coinA.Decimals,
		DecimalsB:             coinB.Decimals,
		Liquidity:             bigString(pool.Liquidity),
		CoinAmountA:           bigString(pool.CoinAmountA),
		CoinAmountB:           bigString(pool.CoinAmountB),
		AccumulatedAmountA:    bigString(result.Total.AccumulatedAmountA),
		AccumulatedAmountB:    bigString(result.Total.AccumulatedAmountB),
		AccumulatedUSDAmountA: result.Total.AccumulatedUSDAmountA.String(),
		AccumulatedUSDAmountB: result.Total.AccumulatedUSDAmountB.String(),
		USDAmount:             result.Total.USDAmount.String(),
		NumeraireUSD:          b.Converter.NumeraireUSD.String(),
		CapturedAt:            b.now().Format(time.RFC3339),
		PriceImpacts:          make([]model.PriceImpact, 0, len(impacts)),
		Ticks:                 make([]model.TickRecord, 0, len(result.Ticks)),
	}
	for _, impact := range impacts {
		snap.PriceImpacts = append(snap.PriceImpacts, model.PriceImpact{
			PriceImpact: json.Number(impact.TargetPct.String()),
			A2B:         rateRecord(impact.AToB),
			B2A:         rateRecord(impact.BToA),
		})
	}
	for _, t := range result.Ticks {
		snap.Ticks = append(snap.Ticks, tickRecord(t))
	}

	log.Info("depth snapshot built",
		zap.String("pool", pool.Address),
		zap.String("pair", coinA.Symbol+"-"+coinB.Symbol),
		zap.Int("ticks", len(snap.Ticks)),
		zap.String("usd_amount", snap.USDAmount),
	)
	return snap, nil
}

// BuildPoolList lists every pool for the pair with its USD value.
func (b *Builder) BuildPoolList(ctx context.Context, coinA, coinB string) ([]model.PoolListEntry, error) {
	if b.Source == nil {
		return nil, fmt.Errorf("source is required")
	}
	log := b.logger()

	pools, err := b.Source.FindPools(ctx, coinA, coinB)
	if err != nil {
		return nil, fmt.Errorf("find pools: %w", err)
	}
	entries := make([]model.PoolListEntry, 0, len(pools))
	if len(pools) == 0 {
		log.Warn("no pools found", zap.String("coin_a", coinA), zap.String("coin_b", coinB))
		return entries, nil
	}

	for _, pool := range pools {
		metaA, err := b.Source.FetchCoinMeta(ctx, pool.CoinTypeA)
		if err != nil {
			return nil, fmt.Errorf("fetch coin a of %s: %w", pool.Address, err)
		}
		metaB, err := b.Source.FetchCoinMeta(ctx, pool.CoinTypeB)
		if err != nil {
			return nil, fmt.Errorf("fetch coin b of %s: %w", pool.Address, err)
		}
		format, err := clmm.FormatForBits(pool.SqrtPriceBits)
		if err != nil {
			return nil, err
		}
		if pool.CurrentSqrtPrice == nil {
			return nil, fmt.Errorf("pool %s: current sqrt price is missing", pool.Address)
		}
		price := format.Price(pool.CurrentSqrtPrice, metaA.Decimals, metaB.Decimals)

		usd := pricing.Scale(pool.CoinAmountA, metaA.Decimals).Mul(price).
			Add(pricing.Scale(pool.CoinAmountB, metaB.Decimals)).
			Mul(b.Converter.NumeraireUSD)

		entries = append(entries, model.PoolListEntry{
			PoolAddress:      pool.Address,
			PoolType:         pool.PoolType,
			PoolName:         pool.Name,
			PoolNameUnique:   UniqueName(metaA.Symbol, metaB.Symbol, pool.TickSpacing),
			CoinTypeA:        pool.CoinTypeA,
			CoinTypeB:        pool.CoinTypeB,
			SymbolA:          metaA.Symbol,
			SymbolB:          metaB.Symbol,
			CoinAmountA:      bigString(pool.CoinAmountA),
			CoinAmountB:      bigString(pool.CoinAmountB),
			CurrentSqrtPrice: bigString(pool.CurrentSqrtPrice),
			CurrentTickIndex: pool.CurrentTickIndex,
			FeeGrowthGlobalA: bigString(pool.FeeGrowthGlobalA),
			FeeGrowthGlobalB: bigString(pool.FeeGrowthGlobalB),
			FeeProtocolCoinA: bigString(pool.FeeProtocolCoinA),
			FeeProtocolCoinB: bigString(pool.FeeProtocolCoinB),
			FeeRate:          pool.FeeRate,
			IsPause:          pool.IsPause,
			Liquidity:        bigString(pool.Liquidity),
			TickSpacing:      pool.TickSpacing,
			CurrentPrice:     price.String(),
			USDPoolAmount:    usd.String(),
		})
		log.Debug("pool listed", zap.String("pool", pool.Address), zap.String("usd_amount", usd.String()))
	}
	return entries, nil
}

// UniqueName is the pair label used in pool listings and snapshot file names.
func UniqueName(symbolA, symbolB string, tickSpacing int32) string {
	return fmt.Sprintf("%s-%s[%d]", symbolA, symbolB, tickSpacing)
}

func rateRecord(r *model.RateResultExtended) *model.RateRecord {
	if r == nil {
		return nil
	}
	return &model.RateRecord{
		EstimatedAmountIn:     bigString(r.EstimatedAmountIn),
		EstimatedAmountOut:    bigString(r.EstimatedAmountOut),
		EstimatedEndSqrtPrice: bigString(r.EstimatedEndSqrtPrice),
		EstimatedFeeAmount:    bigString(r.EstimatedFeeAmount),
		IsExceed:              r.IsExceed,
		Amount:                bigString(r.Amount),
		AToB:                  r.AToB,
		ByAmountIn:            r.ByAmountIn,
		PriceImpactPct:        r.PriceImpactPct.String(),
		SymbolIn:              r.SymbolIn,
		SymbolOut:             r.SymbolOut,
		DecimalsIn:            r.DecimalsIn,
		DecimalsOut:           r.DecimalsOut,
		USDAmountIn:           r.USDAmountIn.String(),
		USDAmountOut:          r.USDAmountOut.String(),
		EstimatedEndIndex:     r.EstimatedEndIndex,
		EstimatedEndPrice:     r.EstimatedEndPrice.String(),
	}
}

func tickRecord(t model.ExtendedTick) model.TickRecord {
	rewards := make([]string, 0, len(t.RewardersGrowthOutside))
	for _, r := range t.RewardersGrowthOutside {
		rewards = append(rewards, bigString(r))
	}
	return model.TickRecord{
		Index:                  t.Index,
		SqrtPrice:              bigString(t.SqrtPrice),
		Price:                  t.Price.String(),
		RawLiquidityNet:        bigString(t.RawLiquidityNet),
		LiquidityNet:           bigString(t.LiquidityNet),
		LiquidityGross:         bigString(t.LiquidityGross),
		AmountA:                bigString(t.AmountA),
		AmountB:                bigString(t.AmountB),
		USDAmountA:             t.USDAmountA.String(),
		USDAmountB:             t.USDAmountB.String(),
		USDAmount:              t.USDAmount.String(),
		AccumulatedLiquidity:   bigString(t.AccumulatedLiquidity),
		AccumulatedAmountA:     bigString(t.AccumulatedAmountA),
		AccumulatedAmountB:     bigString(t.AccumulatedAmountB),
		AccumulatedUSDAmountA:  t.AccumulatedUSDAmountA.String(),
		AccumulatedUSDAmountB:  t.AccumulatedUSDAmountB.String(),
		AccumulatedUSDAmount:   t.AccumulatedUSDAmount.String(),
		FeeGrowthOutsideA:      bigString(t.FeeGrowthOutsideA),
		FeeGrowthOutsideB:      bigString(t.FeeGrowthOutsideB),
		RewardersGrowthOutside: rewards,
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
