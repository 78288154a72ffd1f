package depth

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"depthScope/internal/model"
	"depthScope/internal/pricing"
)

// DefaultThresholds are the price impact targets reported per pool, in percent.
var DefaultThresholds = []decimal.Decimal{
	decimal.RequireFromString("0.5"),
	decimal.RequireFromString("2"),
}

// PairContext is the pool state shared by every threshold search.
type PairContext struct {
	Ticks        []model.Tick
	Pool         model.Pool
	CoinA        model.CoinMeta
	CoinB        model.CoinMeta
	Converter    pricing.Converter
	CurrentPrice decimal.Decimal
}

// PriceImpacts searches every threshold in both directions. An entry is
// returned for each threshold; a direction that never reaches it is nil.
func PriceImpacts(ctx context.Context, s *Searcher, thresholds []decimal.Decimal, pc PairContext) ([]model.PriceImpactResult, error) {
	out := make([]model.PriceImpactResult, 0, len(thresholds))
	for _, target := range thresholds {
		a2b, err := s.FindThreshold(ctx, Query{
			TargetPct:    target,
			AToB:         true,
			Ticks:        pc.Ticks,
			Pool:         pc.Pool,
			DecimalsIn:   pc.CoinA.Decimals,
			DecimalsOut:  pc.CoinB.Decimals,
			SymbolIn:     pc.CoinA.Symbol,
			SymbolOut:    pc.CoinB.Symbol,
			Converter:    pc.Converter,
			CurrentPrice: pc.CurrentPrice,
		})
		if err != nil {
			return nil, fmt.Errorf("a2b threshold %s: %w", target, err)
		}

		b2a, err := s.FindThreshold(ctx, Query{
			TargetPct:    target,
			AToB:         false,
			Ticks:        pc.Ticks,
			Pool:         pc.Pool,
			DecimalsIn:   pc.CoinB.Decimals,
			DecimalsOut:  pc.CoinA.Decimals,
			SymbolIn:     pc.CoinB.Symbol,
			SymbolOut:    pc.CoinA.Symbol,
			Converter:    pc.Converter,
			CurrentPrice: pc.CurrentPrice,
		})
		if err != nil {
			return nil, fmt.Errorf("b2a threshold %s: %w", target, err)
		}

		out = append(out, model.PriceImpactResult{TargetPct: target, AToB: a2b, BToA: b2a})
	}
	return out, nil
}
