package evm

import (
	"fmt"
	"math/big"

	"depthScope/internal/clmm"
)

// wordRange returns the first and last tickBitmap word positions that can
// hold an initialized tick for the given spacing.
func wordRange(spacing int32) (int16, int16, error) {
	if spacing <= 0 {
		return 0, 0, fmt.Errorf("invalid tick spacing %d", spacing)
	}
	minCompressed := floorDiv(clmm.X96.MinTick, spacing)
	maxCompressed := floorDiv(clmm.X96.MaxTick, spacing)
	return int16(minCompressed >> 8), int16(maxCompressed >> 8), nil
}

// ticksFromBitmap expands a bitmap word into initialized tick indexes in
// ascending order.
func ticksFromBitmap(word int16, bitmap *big.Int, spacing int32) []int32 {
	if bitmap == nil || bitmap.Sign() == 0 {
		return nil
	}
	var ticks []int32
	for bit := 0; bit < 256; bit++ {
		if bitmap.Bit(bit) == 0 {
			continue
		}
		compressed := int32(word)*256 + int32(bit)
		ticks = append(ticks, compressed*spacing)
	}
	return ticks
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
