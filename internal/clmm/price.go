package clmm

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// PricePrecision is the number of significant digits kept when dividing prices.
const PricePrecision = 24

// Price converts a sqrt price into a human-readable price of coin A in
// units of coin B, adjusted for both coins' decimals.
func (f *Format) Price(sqrtPrice *big.Int, decimalsA, decimalsB uint8) decimal.Decimal {
	if sqrtPrice == nil || sqrtPrice.Sign() == 0 {
		return decimal.Zero
	}
	shift := int32(decimalsA) - int32(decimalsB)
	squared := new(big.Int).Mul(sqrtPrice, sqrtPrice)
	denominator := new(big.Int).Lsh(bigOne, 2*f.Resolution)

	// Prices below 1 get one extra place per leading zero.
	places := int32(PricePrecision)
	zeros := int32(len(denominator.String())) - int32(len(squared.String())) - shift + 1
	if zeros > 0 {
		places += zeros
	}
	return decimal.NewFromBigInt(squared, shift).DivRound(decimal.NewFromBigInt(denominator, 0), places)
}

// PriceImpactPct returns |P(end) - P(start)| / P(start) * 100 where P is the
// squared sqrt price.
func PriceImpactPct(start, end *big.Int) decimal.Decimal {
	if start == nil || end == nil || start.Sign() == 0 {
		return decimal.Zero
	}
	p0 := new(big.Int).Mul(start, start)
	p1 := new(big.Int).Mul(end, end)
	diff := new(big.Int).Sub(p1, p0)
	diff.Abs(diff).Mul(diff, big.NewInt(100))
	return decimal.NewFromBigInt(diff, 0).DivRound(decimal.NewFromBigInt(p0, 0), 18)
}
