package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Tick is a single initialized price boundary of a concentrated-liquidity pool.
// LiquidityNet is kept as supplied by the source, which may be the unsigned
// 128-bit encoding of a negative delta.
type Tick struct {
	Index                  int32
	SqrtPrice              *big.Int
	LiquidityNet           *big.Int
	LiquidityGross         *big.Int
	FeeGrowthOutsideA      *big.Int
	FeeGrowthOutsideB      *big.Int
	RewardersGrowthOutside []*big.Int
}

// Clone returns a deep copy of the tick.
func (t Tick) Clone() Tick {
	out := Tick{
		Index:             t.Index,
		SqrtPrice:         cloneInt(t.SqrtPrice),
		LiquidityNet:      cloneInt(t.LiquidityNet),
		LiquidityGross:    cloneInt(t.LiquidityGross),
		FeeGrowthOutsideA: cloneInt(t.FeeGrowthOutsideA),
		FeeGrowthOutsideB: cloneInt(t.FeeGrowthOutsideB),
	}
	if t.RewardersGrowthOutside != nil {
		out.RewardersGrowthOutside = make([]*big.Int, len(t.RewardersGrowthOutside))
		for i, v := range t.RewardersGrowthOutside {
			out.RewardersGrowthOutside[i] = cloneInt(v)
		}
	}
	return out
}

// AmountExtension holds the depth figures derived for a tick interval.
type AmountExtension struct {
	Price                 decimal.Decimal
	AccumulatedLiquidity  *big.Int
	RawLiquidityNet       *big.Int
	AmountA               *big.Int
	AmountB               *big.Int
	USDAmountA            decimal.Decimal
	USDAmountB            decimal.Decimal
	USDAmount             decimal.Decimal
	AccumulatedAmountA    *big.Int
	AccumulatedAmountB    *big.Int
	AccumulatedUSDAmountA decimal.Decimal
	AccumulatedUSDAmountB decimal.Decimal
	AccumulatedUSDAmount  decimal.Decimal
}

// ExtendedTick is a tick with its sign-corrected LiquidityNet and depth figures.
type ExtendedTick struct {
	Tick
	AmountExtension
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
