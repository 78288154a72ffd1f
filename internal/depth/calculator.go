package depth

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"depthScope/internal/clmm"
	"depthScope/internal/model"
	"depthScope/internal/pricing"
)

// Input is the data needed to compute the liquidity depth of a pool.
// Ticks must be sorted ascending by index; the last tick only closes the
// previous interval.
type Input struct {
	Ticks            []model.Tick
	CurrentSqrtPrice *big.Int
	SymbolA          string
	SymbolB          string
	DecimalsA        uint8
	DecimalsB        uint8
	Converter        pricing.Converter
	Format           *clmm.Format
}

// Result holds the extended ticks and the pool-wide totals.
type Result struct {
	Ticks        []model.ExtendedTick
	Total        model.AmountExtension
	CurrentPrice decimal.Decimal
}

// Calculate extends every tick with the token amounts and USD values held by
// the liquidity active in the interval starting at that tick.
//
// USD values for every interval use the pool's current price as the A/B
// cross rate, not the interval's own price. The input ticks are not modified.
func Calculate(in Input) (Result, error) {
	format := in.Format
	if format == nil {
		format = clmm.X64
	}
	if in.CurrentSqrtPrice == nil {
		return Result{}, fmt.Errorf("current sqrt price is required")
	}

	currentPrice := format.Price(in.CurrentSqrtPrice, in.DecimalsA, in.DecimalsB)
	ticks := make([]model.ExtendedTick, len(in.Ticks))

	cumulative := new(big.Int)
	for i, tick := range in.Ticks {
		if tick.SqrtPrice == nil {
			return Result{}, fmt.Errorf("tick %d has no sqrt price", tick.Index)
		}
		base := tick.Clone()
		base.LiquidityNet = clmm.SignedLiquidityNet(tick.LiquidityNet, tick.LiquidityGross)
		cumulative = new(big.Int).Add(cumulative, base.LiquidityNet)

		ticks[i] = model.ExtendedTick{
			Tick:            base,
			AmountExtension: zeroExtension(),
		}
		ticks[i].Price = format.Price(tick.SqrtPrice, in.DecimalsA, in.DecimalsB)
		ticks[i].RawLiquidityNet = cloneOrZero(tick.LiquidityNet)
		ticks[i].AccumulatedLiquidity = cumulative
	}

	accA := new(big.Int)
	accB := new(big.Int)
	accUSDA := decimal.Zero
	accUSDB := decimal.Zero

	for i := 0; i < len(ticks)-1; i++ {
		amountA, amountB, err := format.CoinAmountsFromLiquidity(
			ticks[i].AccumulatedLiquidity,
			in.CurrentSqrtPrice,
			ticks[i].SqrtPrice,
			ticks[i+1].SqrtPrice,
			false,
		)
		if err != nil {
			return Result{}, fmt.Errorf("tick %d amounts: %w", ticks[i].Index, err)
		}

		usdA := in.Converter.ToUSD(amountA, in.DecimalsA, in.SymbolA, currentPrice)
		usdB := in.Converter.ToUSD(amountB, in.DecimalsB, in.SymbolB, currentPrice)

		accA = new(big.Int).Add(accA, amountA)
		accB = new(big.Int).Add(accB, amountB)
		accUSDA = accUSDA.Add(usdA)
		accUSDB = accUSDB.Add(usdB)

		ext := &ticks[i].AmountExtension
		ext.AmountA = amountA
		ext.AmountB = amountB
		ext.USDAmountA = usdA
		ext.USDAmountB = usdB
		ext.USDAmount = usdA.Add(usdB)
		ext.AccumulatedAmountA = accA
		ext.AccumulatedAmountB = accB
		ext.AccumulatedUSDAmountA = accUSDA
		ext.AccumulatedUSDAmountB = accUSDB
		ext.AccumulatedUSDAmount = accUSDA.Add(accUSDB)
	}

	total := zeroExtension()
	total.Price = currentPrice
	if n := len(ticks); n > 0 {
		total.RawLiquidityNet = cloneOrZero(ticks[n-1].RawLiquidityNet)
		total.AccumulatedLiquidity = cloneOrZero(ticks[n-1].AccumulatedLiquidity)
	}
	total.AmountA = new(big.Int).Set(accA)
	total.AmountB = new(big.Int).Set(accB)
	total.AccumulatedAmountA = new(big.Int).Set(accA)
	total.AccumulatedAmountB = new(big.Int).Set(accB)
	total.USDAmountA = accUSDA
	total.USDAmountB = accUSDB
	total.USDAmount = accUSDA.Add(accUSDB)
	total.AccumulatedUSDAmountA = accUSDA
	total.AccumulatedUSDAmountB = accUSDB
	total.AccumulatedUSDAmount = accUSDA.Add(accUSDB)

	return Result{Ticks: ticks, Total: total, CurrentPrice: currentPrice}, nil
}

func zeroExtension() model.AmountExtension {
	return model.AmountExtension{
		Price:                 decimal.Zero,
		AccumulatedLiquidity:  new(big.Int),
		RawLiquidityNet:       new(big.Int),
		AmountA:               new(big.Int),
		AmountB:               new(big.Int),
		USDAmountA:            decimal.Zero,
		USDAmountB:            decimal.Zero,
		USDAmount:             decimal.Zero,
		AccumulatedAmountA:    new(big.Int),
		AccumulatedAmountB:    new(big.Int),
		AccumulatedUSDAmountA: decimal.Zero,
		AccumulatedUSDAmountB: decimal.Zero,
		AccumulatedUSDAmount:  decimal.Zero,
	}
}

func cloneOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
