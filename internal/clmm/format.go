package clmm

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrTickOutOfBounds      = errors.New("tick out of bounds")
	ErrSqrtPriceOutOfBounds = errors.New("sqrt price out of bounds")
	ErrSqrtPriceZero        = errors.New("sqrt price must be greater than zero")
	ErrLiquidityZero        = errors.New("liquidity must be greater than zero")
	ErrLiquidityUnderflow   = errors.New("liquidity underflow after tick cross")
	ErrPriceUnderflow       = errors.New("sqrt price underflow")
)

// Format describes a fixed-point sqrt price encoding and its tick range.
type Format struct {
	Name       string
	Resolution uint
	MinTick    int32
	MaxTick    int32
	// RoundUp rounds SqrtPriceAtTick up when narrowing from Q128.
	RoundUp bool

	one          *big.Int
	minSqrtPrice *big.Int
	maxSqrtPrice *big.Int
}

var (
	// X64 is the Q64.64 encoding used by Cetus and other Move/Solana CLMMs.
	X64 = newFormat("x64", 64, -443636, 443636, false)
	// X96 is the Q64.96 encoding used by Uniswap V3 style pools.
	X96 = newFormat("x96", 96, -887272, 887272, true)
)

func newFormat(name string, resolution uint, minTick, maxTick int32, roundUp bool) *Format {
	f := &Format{
		Name:       name,
		Resolution: resolution,
		MinTick:    minTick,
		MaxTick:    maxTick,
		RoundUp:    roundUp,
		one:        new(big.Int).Lsh(big.NewInt(1), resolution),
	}
	f.minSqrtPrice = mustSqrtPriceAtTick(f, minTick)
	f.maxSqrtPrice = mustSqrtPriceAtTick(f, maxTick)
	return f
}

func mustSqrtPriceAtTick(f *Format, tick int32) *big.Int {
	v, err := f.SqrtPriceAtTick(tick)
	if err != nil {
		panic(err)
	}
	return v
}

// FormatForBits returns the format for a sqrt price resolution in bits.
// Zero selects X64.
func FormatForBits(bits uint) (*Format, error) {
	switch bits {
	case 0, 64:
		return X64, nil
	case 96:
		return X96, nil
	default:
		return nil, fmt.Errorf("unsupported sqrt price resolution %d", bits)
	}
}

// One returns 2^Resolution.
func (f *Format) One() *big.Int {
	return new(big.Int).Set(f.one)
}

// MinSqrtPrice returns the sqrt price at MinTick.
func (f *Format) MinSqrtPrice() *big.Int {
	return new(big.Int).Set(f.minSqrtPrice)
}

// MaxSqrtPrice returns the sqrt price at MaxTick.
func (f *Format) MaxSqrtPrice() *big.Int {
	return new(big.Int).Set(f.maxSqrtPrice)
}
