package clmm

import (
	"fmt"
	"math/big"
	"sort"

	"depthScope/internal/model"
)

// FeeDenominator is the denominator of pool fee rates (parts per million).
var FeeDenominator = big.NewInt(1_000_000)

// SwapStep is the result of swapping within a single tick interval.
type SwapStep struct {
	NextSqrtPrice *big.Int
	AmountIn      *big.Int
	AmountOut     *big.Int
	FeeAmount     *big.Int
}

// ComputeSwapStep swaps amountRemaining between current and target. Exact
// input when byAmountIn, otherwise exact output. Direction follows from the
// relative order of current and target.
func (f *Format) ComputeSwapStep(current, target, liquidity, amountRemaining *big.Int, feeRate uint32, byAmountIn bool) (SwapStep, error) {
	aToB := current.Cmp(target) >= 0
	feePips := new(big.Int).SetUint64(uint64(feeRate))
	feeComplement := new(big.Int).Sub(FeeDenominator, feePips)

	step := SwapStep{}
	var err error

	if byAmountIn {
		remainingLessFee := mulDiv(amountRemaining, feeComplement, FeeDenominator)
		if aToB {
			step.AmountIn, err = f.AmountADelta(target, current, liquidity, true)
			if err != nil {
				return SwapStep{}, err
			}
		} else {
			step.AmountIn = f.AmountBDelta(current, target, liquidity, true)
		}
		if remainingLessFee.Cmp(step.AmountIn) >= 0 {
			step.NextSqrtPrice = new(big.Int).Set(target)
		} else {
			step.NextSqrtPrice, err = f.NextSqrtPriceFromInput(current, liquidity, remainingLessFee, aToB)
			if err != nil {
				return SwapStep{}, err
			}
		}
	} else {
		if aToB {
			step.AmountOut = f.AmountBDelta(target, current, liquidity, false)
		} else {
			step.AmountOut, err = f.AmountADelta(current, target, liquidity, false)
			if err != nil {
				return SwapStep{}, err
			}
		}
		if amountRemaining.Cmp(step.AmountOut) >= 0 {
			step.NextSqrtPrice = new(big.Int).Set(target)
		} else {
			step.NextSqrtPrice, err = f.NextSqrtPriceFromOutput(current, liquidity, amountRemaining, aToB)
			if err != nil {
				return SwapStep{}, err
			}
		}
	}

	reached := target.Cmp(step.NextSqrtPrice) == 0

	if aToB {
		if !(reached && byAmountIn) {
			step.AmountIn, err = f.AmountADelta(step.NextSqrtPrice, current, liquidity, true)
			if err != nil {
				return SwapStep{}, err
			}
		}
		if !(reached && !byAmountIn) {
			step.AmountOut = f.AmountBDelta(step.NextSqrtPrice, current, liquidity, false)
		}
	} else {
		if !(reached && byAmountIn) {
			step.AmountIn = f.AmountBDelta(current, step.NextSqrtPrice, liquidity, true)
		}
		if !(reached && !byAmountIn) {
			step.AmountOut, err = f.AmountADelta(current, step.NextSqrtPrice, liquidity, false)
			if err != nil {
				return SwapStep{}, err
			}
		}
	}

	if !byAmountIn && step.AmountOut.Cmp(amountRemaining) > 0 {
		step.AmountOut = new(big.Int).Set(amountRemaining)
	}

	if byAmountIn && !reached {
		step.FeeAmount = new(big.Int).Sub(amountRemaining, step.AmountIn)
	} else {
		step.FeeAmount = mulDivRoundingUp(step.AmountIn, feePips, feeComplement)
	}

	return step, nil
}

// Simulator estimates swaps by walking a pool's initialized ticks.
// It is safe for concurrent use.
type Simulator struct{}

type swapBoundary struct {
	sqrtPrice *big.Int
	delta     *big.Int
}

// CalculateRates simulates a swap of p.Amount against p.Ticks starting from
// the pool's current sqrt price and liquidity. When the ticks run out before
// the amount is filled the result is marked IsExceed.
func (Simulator) CalculateRates(p model.RateParams) (model.RateResult, error) {
	format, err := FormatForBits(p.Pool.SqrtPriceBits)
	if err != nil {
		return model.RateResult{}, err
	}
	if p.Amount == nil || p.Amount.Sign() < 0 {
		return model.RateResult{}, fmt.Errorf("swap amount must be non-negative")
	}
	if uint64(p.Pool.FeeRate) >= FeeDenominator.Uint64() {
		return model.RateResult{}, fmt.Errorf("fee rate %d out of range", p.Pool.FeeRate)
	}
	if p.Pool.CurrentSqrtPrice == nil || p.Pool.CurrentSqrtPrice.Sign() <= 0 {
		return model.RateResult{}, ErrSqrtPriceZero
	}

	start := new(big.Int).Set(p.Pool.CurrentSqrtPrice)
	current := new(big.Int).Set(start)
	liquidity := new(big.Int)
	if p.Pool.Liquidity != nil {
		liquidity.Set(p.Pool.Liquidity)
	}
	remaining := new(big.Int).Set(p.Amount)
	amountIn := new(big.Int)
	amountOut := new(big.Int)
	feeAmount := new(big.Int)

	for _, b := range swapPath(p.Ticks, start, p.AToB) {
		if remaining.Sign() == 0 {
			break
		}

		step, err := format.ComputeSwapStep(current, b.sqrtPrice, liquidity, remaining, p.Pool.FeeRate, p.ByAmountIn)
		if err != nil {
			return model.RateResult{}, fmt.Errorf("swap step at %s: %w", b.sqrtPrice, err)
		}

		amountIn.Add(amountIn, step.AmountIn)
		amountOut.Add(amountOut, step.AmountOut)
		feeAmount.Add(feeAmount, step.FeeAmount)
		if p.ByAmountIn {
			remaining.Sub(remaining, step.AmountIn).Sub(remaining, step.FeeAmount)
		} else {
			remaining.Sub(remaining, step.AmountOut)
		}
		current = step.NextSqrtPrice

		if current.Cmp(b.sqrtPrice) != 0 {
			break
		}
		liquidity.Add(liquidity, b.delta)
		if liquidity.Sign() < 0 {
			return model.RateResult{}, ErrLiquidityUnderflow
		}
	}

	return model.RateResult{
		EstimatedAmountIn:     amountIn.Add(amountIn, feeAmount),
		EstimatedAmountOut:    amountOut,
		EstimatedEndSqrtPrice: current,
		EstimatedFeeAmount:    feeAmount,
		IsExceed:              remaining.Sign() > 0,
		Amount:                new(big.Int).Set(p.Amount),
		AToB:                  p.AToB,
		ByAmountIn:            p.ByAmountIn,
		PriceImpactPct:        PriceImpactPct(start, current),
	}, nil
}

// swapPath orders the ticks the swap will cross and the liquidity change
// applied when each is crossed in that direction.
func swapPath(ticks []model.Tick, current *big.Int, aToB bool) []swapBoundary {
	path := make([]swapBoundary, 0, len(ticks))
	for _, t := range ticks {
		if t.SqrtPrice == nil {
			continue
		}
		below := t.SqrtPrice.Cmp(current) <= 0
		if below != aToB {
			continue
		}
		delta := SignedLiquidityNet(t.LiquidityNet, t.LiquidityGross)
		if aToB {
			delta.Neg(delta)
		}
		path = append(path, swapBoundary{sqrtPrice: t.SqrtPrice, delta: delta})
	}

	sort.SliceStable(path, func(i, j int) bool {
		if aToB {
			return path[i].sqrtPrice.Cmp(path[j].sqrtPrice) > 0
		}
		return path[i].sqrtPrice.Cmp(path[j].sqrtPrice) < 0
	})
	return path
}
