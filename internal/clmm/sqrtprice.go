package clmm

import "math/big"

var bigOne = big.NewInt(1)

// AmountADelta returns the amount of coin A between two sqrt prices for the
// given liquidity: L * 2^res * (upper - lower) / (upper * lower).
func (f *Format) AmountADelta(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) (*big.Int, error) {
	if sqrtA.Cmp(sqrtB) > 0 {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	if sqrtA.Sign() <= 0 {
		return nil, ErrSqrtPriceZero
	}

	numerator1 := new(big.Int).Lsh(liquidity, f.Resolution)
	numerator2 := new(big.Int).Sub(sqrtB, sqrtA)

	if roundUp {
		term := mulDivRoundingUp(numerator1, numerator2, sqrtB)
		return divRoundingUp(term, sqrtA), nil
	}
	term := mulDiv(numerator1, numerator2, sqrtB)
	return term.Div(term, sqrtA), nil
}

// AmountBDelta returns the amount of coin B between two sqrt prices for the
// given liquidity: L * (upper - lower) / 2^res.
func (f *Format) AmountBDelta(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) *big.Int {
	if sqrtA.Cmp(sqrtB) > 0 {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	diff := new(big.Int).Sub(sqrtB, sqrtA)
	if roundUp {
		return mulDivRoundingUp(liquidity, diff, f.one)
	}
	return mulDiv(liquidity, diff, f.one)
}

// NextSqrtPriceFromInput returns the sqrt price after adding amountIn of the
// input coin. aToB means coin A is the input and the price moves down.
func (f *Format) NextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn *big.Int, aToB bool) (*big.Int, error) {
	if sqrtPrice.Sign() <= 0 {
		return nil, ErrSqrtPriceZero
	}
	if liquidity.Sign() <= 0 {
		return nil, ErrLiquidityZero
	}
	if aToB {
		return f.nextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amountIn, true)
	}
	return f.nextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amountIn, true)
}

// NextSqrtPriceFromOutput returns the sqrt price after removing amountOut of
// the output coin.
func (f *Format) NextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut *big.Int, aToB bool) (*big.Int, error) {
	if sqrtPrice.Sign() <= 0 {
		return nil, ErrSqrtPriceZero
	}
	if liquidity.Sign() <= 0 {
		return nil, ErrLiquidityZero
	}
	if aToB {
		return f.nextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amountOut, false)
	}
	return f.nextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amountOut, false)
}

func (f *Format) nextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if amount.Sign() == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}

	numerator1 := new(big.Int).Lsh(liquidity, f.Resolution)
	product := new(big.Int).Mul(amount, sqrtPrice)

	if add {
		denominator := new(big.Int).Add(numerator1, product)
		return mulDivRoundingUp(numerator1, sqrtPrice, denominator), nil
	}

	if numerator1.Cmp(product) <= 0 {
		return nil, ErrPriceUnderflow
	}
	denominator := new(big.Int).Sub(numerator1, product)
	return mulDivRoundingUp(numerator1, sqrtPrice, denominator), nil
}

func (f *Format) nextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if add {
		quotient := mulDiv(amount, f.one, liquidity)
		return quotient.Add(quotient, sqrtPrice), nil
	}

	quotient := mulDivRoundingUp(amount, f.one, liquidity)
	if sqrtPrice.Cmp(quotient) <= 0 {
		return nil, ErrPriceUnderflow
	}
	return quotient.Sub(sqrtPrice, quotient), nil
}

func mulDiv(a, b, c *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	return product.Div(product, c)
}

func mulDivRoundingUp(a, b, c *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	quo, rem := new(big.Int).QuoRem(product, c, new(big.Int))
	if rem.Sign() > 0 {
		quo.Add(quo, bigOne)
	}
	return quo
}

func divRoundingUp(a, b *big.Int) *big.Int {
	quo, rem := new(big.Int).QuoRem(a, b, new(big.Int))
	if rem.Sign() > 0 {
		quo.Add(quo, bigOne)
	}
	return quo
}
