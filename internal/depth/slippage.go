package depth

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"depthScope/internal/clmm"
	"depthScope/internal/model"
	"depthScope/internal/pricing"
)

// ErrNonMonotonic is returned in strict mode when a larger trade produced a
// smaller price impact than a smaller one.
var ErrNonMonotonic = errors.New("price impact is not monotonic in trade size")

// DefaultSearchUnits is the upper search bound in whole units of the input coin.
var DefaultSearchUnits = big.NewInt(10_000_000)

var bigOne = big.NewInt(1)

// RateCalculator estimates a single candidate swap.
type RateCalculator interface {
	CalculateRates(p model.RateParams) (model.RateResult, error)
}

// Query describes one threshold search in one swap direction. DecimalsIn and
// SymbolIn describe the coin sold: coin A when AToB, coin B otherwise.
type Query struct {
	TargetPct    decimal.Decimal
	AToB         bool
	Ticks        []model.Tick
	Pool         model.Pool
	DecimalsIn   uint8
	DecimalsOut  uint8
	SymbolIn     string
	SymbolOut    string
	Converter    pricing.Converter
	CurrentPrice decimal.Decimal

	// Low and High override the default bounds of one whole input unit and
	// DefaultSearchUnits whole input units.
	Low  *big.Int
	High *big.Int
}

// Searcher finds the smallest trade size whose price impact reaches a target.
//
// The binary search is only valid when price impact never decreases as the
// trade size grows. Every probe is checked against the earlier ones; a
// violation is logged, or returned as ErrNonMonotonic when Strict is set.
type Searcher struct {
	Rates  RateCalculator
	Logger *zap.Logger
	Strict bool
}

type probe struct {
	amount *big.Int
	impact decimal.Decimal
}

// FindThreshold returns the extended rate estimate for the smallest amount in
// range whose price impact is >= q.TargetPct, or nil when no amount in range
// reaches it.
func (s *Searcher) FindThreshold(ctx context.Context, q Query) (*model.RateResultExtended, error) {
	if s.Rates == nil {
		return nil, fmt.Errorf("rate calculator is required")
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(q.DecimalsIn)), nil)
	low := unit
	if q.Low != nil {
		low = new(big.Int).Set(q.Low)
	}
	high := new(big.Int).Mul(DefaultSearchUnits, unit)
	if q.High != nil {
		high = new(big.Int).Set(q.High)
	}

	decimalsA, decimalsB := q.DecimalsIn, q.DecimalsOut
	if !q.AToB {
		decimalsA, decimalsB = q.DecimalsOut, q.DecimalsIn
	}

	var (
		best   *model.RateResult
		probes []probe
	)
	for low.Cmp(high) <= 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mid := new(big.Int).Add(low, high)
		mid.Rsh(mid, 1)

		res, err := s.Rates.CalculateRates(model.RateParams{
			DecimalsA:  decimalsA,
			DecimalsB:  decimalsB,
			AToB:       q.AToB,
			ByAmountIn: true,
			Amount:     mid,
			Ticks:      q.Ticks,
			Pool:       q.Pool,
		})
		if err != nil {
			return nil, fmt.Errorf("calculate rates for %s: %w", mid, err)
		}

		if err := s.checkMonotonic(logger, probes, mid, res.PriceImpactPct); err != nil {
			return nil, err
		}
		probes = append(probes, probe{amount: mid, impact: res.PriceImpactPct})

		if res.PriceImpactPct.GreaterThanOrEqual(q.TargetPct) {
			found := res
			best = &found
			high = new(big.Int).Sub(mid, bigOne)
		} else {
			low = new(big.Int).Add(mid, bigOne)
		}
	}

	if best == nil {
		logger.Info("slippage threshold not reached",
			zap.String("target_pct", q.TargetPct.String()),
			zap.Bool("a2b", q.AToB),
			zap.String("symbol_in", q.SymbolIn),
			zap.Int("probes", len(probes)),
		)
		return nil, nil
	}

	format, err := clmm.FormatForBits(q.Pool.SqrtPriceBits)
	if err != nil {
		return nil, err
	}
	endIndex, err := format.TickAtSqrtPrice(best.EstimatedEndSqrtPrice)
	if err != nil {
		return nil, fmt.Errorf("end tick for %s: %w", best.EstimatedEndSqrtPrice, err)
	}

	ext := &model.RateResultExtended{
		RateResult:        *best,
		SymbolIn:          q.SymbolIn,
		SymbolOut:         q.SymbolOut,
		DecimalsIn:        q.DecimalsIn,
		DecimalsOut:       q.DecimalsOut,
		USDAmountIn:       q.Converter.ToUSD(best.EstimatedAmountIn, q.DecimalsIn, q.SymbolIn, q.CurrentPrice),
		USDAmountOut:      q.Converter.ToUSD(best.EstimatedAmountOut, q.DecimalsOut, q.SymbolOut, q.CurrentPrice),
		EstimatedEndIndex: endIndex,
		EstimatedEndPrice: format.Price(best.EstimatedEndSqrtPrice, decimalsA, decimalsB),
	}

	logger.Debug("slippage threshold found",
		zap.String("target_pct", q.TargetPct.String()),
		zap.Bool("a2b", q.AToB),
		zap.String("amount_in", ext.EstimatedAmountIn.String()),
		zap.String("amount_out", ext.EstimatedAmountOut.String()),
		zap.String("impact_pct", ext.PriceImpactPct.String()),
		zap.Int("probes", len(probes)),
	)
	return ext, nil
}

func (s *Searcher) checkMonotonic(logger *zap.Logger, probes []probe, amount *big.Int, impact decimal.Decimal) error {
	for _, p := range probes {
		cmp := p.amount.Cmp(amount)
		violated := (cmp < 0 && p.impact.GreaterThan(impact)) || (cmp > 0 && p.impact.LessThan(impact))
		if !violated {
			continue
		}
		if s.Strict {
			return fmt.Errorf("%w: amount %s impact %s vs amount %s impact %s", ErrNonMonotonic, p.amount, p.impact, amount, impact)
		}
		logger.Warn("non-monotonic price impact",
			zap.String("amount", amount.String()),
			zap.String("impact_pct", impact.String()),
			zap.String("prior_amount", p.amount.String()),
			zap.String("prior_impact_pct", p.impact.String()),
		)
		return nil
	}
	return nil
}
