package clmm

import "math/big"

var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

// IsTwosComplementEncoded reports whether net is the unsigned 128-bit
// encoding of a negative delta. A true signed delta never exceeds gross.
func IsTwosComplementEncoded(net, gross *big.Int) bool {
	if net == nil || gross == nil {
		return false
	}
	return net.Cmp(gross) > 0
}

// SignedLiquidityNet converts a net liquidity value read as unsigned 128-bit
// into its signed delta. The result never aliases net.
func SignedLiquidityNet(net, gross *big.Int) *big.Int {
	if net == nil {
		return new(big.Int)
	}
	if IsTwosComplementEncoded(net, gross) {
		return new(big.Int).Sub(net, two128)
	}
	return new(big.Int).Set(net)
}

// UnsignedLiquidityNet encodes a signed 128-bit delta as its unsigned
// two's-complement representation.
func UnsignedLiquidityNet(net *big.Int) *big.Int {
	if net == nil {
		return new(big.Int)
	}
	if net.Sign() < 0 {
		return new(big.Int).Add(net, two128)
	}
	return new(big.Int).Set(net)
}
