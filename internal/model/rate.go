package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// RateParams describes a candidate swap against a tick set.
type RateParams struct {
	DecimalsA  uint8
	DecimalsB  uint8
	AToB       bool
	ByAmountIn bool
	Amount     *big.Int
	Ticks      []Tick
	Pool       Pool
}

// RateResult is the estimate for a single candidate swap.
type RateResult struct {
	EstimatedAmountIn     *big.Int
	EstimatedAmountOut    *big.Int
	EstimatedEndSqrtPrice *big.Int
	EstimatedFeeAmount    *big.Int
	IsExceed              bool
	Amount                *big.Int
	AToB                  bool
	ByAmountIn            bool
	PriceImpactPct        decimal.Decimal
}

// RateResultExtended adds display and USD fields to a RateResult.
type RateResultExtended struct {
	RateResult
	SymbolIn          string
	SymbolOut         string
	DecimalsIn        uint8
	DecimalsOut       uint8
	USDAmountIn       decimal.Decimal
	USDAmountOut      decimal.Decimal
	EstimatedEndIndex int32
	EstimatedEndPrice decimal.Decimal
}

// PriceImpactResult pairs the threshold search outcome for both directions.
// A nil direction means no trade size in range reached the target.
type PriceImpactResult struct {
	TargetPct decimal.Decimal
	AToB      *RateResultExtended
	BToA      *RateResultExtended
}
