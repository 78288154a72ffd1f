package clmm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depthScope/internal/model"
)

// singleRangePool has liquidity 1e12 between ticks -1000 and 1000 around tick 0.
func singleRangePool(t *testing.T) (model.Pool, []model.Tick) {
	t.Helper()
	liquidity := big.NewInt(1_000_000_000_000)

	lower, err := X64.SqrtPriceAtTick(-1000)
	require.NoError(t, err)
	upper, err := X64.SqrtPriceAtTick(1000)
	require.NoError(t, err)

	ticks := []model.Tick{
		{Index: -1000, SqrtPrice: lower, LiquidityNet: new(big.Int).Set(liquidity), LiquidityGross: new(big.Int).Set(liquidity)},
		{Index: 1000, SqrtPrice: upper, LiquidityNet: UnsignedLiquidityNet(new(big.Int).Neg(liquidity)), LiquidityGross: new(big.Int).Set(liquidity)},
	}
	pool := model.Pool{
		CurrentSqrtPrice: X64.One(),
		Liquidity:        liquidity,
		FeeRate:          2500,
		SqrtPriceBits:    64,
	}
	return pool, ticks
}

func TestCalculateRatesExactInWithinRange(t *testing.T) {
	pool, ticks := singleRangePool(t)

	res, err := Simulator{}.CalculateRates(model.RateParams{
		AToB:       true,
		ByAmountIn: true,
		Amount:     big.NewInt(1_000_000_000),
		Ticks:      ticks,
		Pool:       pool,
	})
	require.NoError(t, err)

	assert.False(t, res.IsExceed)
	assert.Equal(t, "1000000000", res.EstimatedAmountIn.String())
	assert.Equal(t, "996505985", res.EstimatedAmountOut.String())
	assert.Equal(t, "2500000", res.EstimatedFeeAmount.String())
	assert.Equal(t, "18428361782831177517", res.EstimatedEndSqrtPrice.String())
	assert.True(t, res.PriceImpactPct.IsPositive())

	res, err = Simulator{}.CalculateRates(model.RateParams{
		AToB:       false,
		ByAmountIn: true,
		Amount:     big.NewInt(1_000_000_000),
		Ticks:      ticks,
		Pool:       pool,
	})
	require.NoError(t, err)
	assert.Equal(t, "18465144700923076893", res.EstimatedEndSqrtPrice.String())
	assert.Equal(t, 1, res.EstimatedEndSqrtPrice.Cmp(pool.CurrentSqrtPrice))
}

func TestCalculateRatesExceedsTicks(t *testing.T) {
	pool, ticks := singleRangePool(t)

	res, err := Simulator{}.CalculateRates(model.RateParams{
		AToB:       true,
		ByAmountIn: true,
		Amount:     big.NewInt(1_000_000_000_000_000),
		Ticks:      ticks,
		Pool:       pool,
	})
	require.NoError(t, err)

	assert.True(t, res.IsExceed)
	assert.Equal(t, ticks[0].SqrtPrice.String(), res.EstimatedEndSqrtPrice.String())
	assert.Equal(t, "51396960779", res.EstimatedAmountIn.String())
}

func TestCalculateRatesImpactIsMonotonic(t *testing.T) {
	pool, ticks := singleRangePool(t)

	prev := big.NewInt(0)
	prevImpact := PriceImpactPct(pool.CurrentSqrtPrice, pool.CurrentSqrtPrice)
	for _, amount := range []int64{1_000, 1_000_000, 1_000_000_000, 10_000_000_000, 40_000_000_000} {
		res, err := Simulator{}.CalculateRates(model.RateParams{
			AToB:       true,
			ByAmountIn: true,
			Amount:     big.NewInt(amount),
			Ticks:      ticks,
			Pool:       pool,
		})
		require.NoError(t, err)
		assert.True(t, res.PriceImpactPct.GreaterThanOrEqual(prevImpact), "impact decreased at %d", amount)
		assert.True(t, res.EstimatedAmountOut.Cmp(prev) >= 0)
		prev = res.EstimatedAmountOut
		prevImpact = res.PriceImpactPct
	}
}

func TestCalculateRatesDoesNotMutateInput(t *testing.T) {
	pool, ticks := singleRangePool(t)
	before := pool.Liquidity.String()
	amount := big.NewInt(1_000_000_000_000_000)

	_, err := Simulator{}.CalculateRates(model.RateParams{AToB: true, ByAmountIn: true, Amount: amount, Ticks: ticks, Pool: pool})
	require.NoError(t, err)

	assert.Equal(t, before, pool.Liquidity.String())
	assert.Equal(t, "1000000000000000", amount.String())
	assert.Equal(t, 0, pool.CurrentSqrtPrice.Cmp(X64.One()))
}

func TestComputeSwapStepExactOut(t *testing.T) {
	pool, ticks := singleRangePool(t)

	step, err := X64.ComputeSwapStep(pool.CurrentSqrtPrice, ticks[0].SqrtPrice, pool.Liquidity, big.NewInt(1_000_000), pool.FeeRate, false)
	require.NoError(t, err)

	assert.Equal(t, "1000000", step.AmountOut.String())
	assert.Equal(t, -1, step.NextSqrtPrice.Cmp(pool.CurrentSqrtPrice))
	assert.Equal(t, 1, step.AmountIn.Cmp(step.AmountOut))
	assert.True(t, step.FeeAmount.Sign() > 0)
}

func TestCalculateRatesRejectsBadInput(t *testing.T) {
	pool, ticks := singleRangePool(t)

	_, err := Simulator{}.CalculateRates(model.RateParams{Amount: big.NewInt(-1), Ticks: ticks, Pool: pool})
	assert.Error(t, err)

	pool.SqrtPriceBits = 32
	_, err = Simulator{}.CalculateRates(model.RateParams{Amount: big.NewInt(1), Ticks: ticks, Pool: pool})
	assert.Error(t, err)
}
