package clmm

import "math/big"

// CoinAmountsFromLiquidity returns the coin A and coin B amounts that
// liquidity holds across [lower, upper) when the pool sits at current.
// Below the range the position is all coin A, above it all coin B.
func (f *Format) CoinAmountsFromLiquidity(liquidity, current, lower, upper *big.Int, roundUp bool) (*big.Int, *big.Int, error) {
	switch {
	case current.Cmp(lower) < 0:
		amountA, err := f.AmountADelta(lower, upper, liquidity, roundUp)
		if err != nil {
			return nil, nil, err
		}
		return amountA, new(big.Int), nil
	case current.Cmp(upper) < 0:
		amountA, err := f.AmountADelta(current, upper, liquidity, roundUp)
		if err != nil {
			return nil, nil, err
		}
		return amountA, f.AmountBDelta(lower, current, liquidity, roundUp), nil
	default:
		return new(big.Int), f.AmountBDelta(lower, upper, liquidity, roundUp), nil
	}
}
