package clmm

import (
	"math/big"

	"github.com/holiman/uint256"
)

var (
	u256One    = uint256.NewInt(1)
	maxUint256 = uint256.MustFromBig(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))

	// ratioConstants[i] is sqrt(1.0001^-(2^i)) as a Q128.128 number.
	ratioConstants = [20]*uint256.Int{
		mustHex("0xfffcb933bd6fad37aa2d162d1a594001"),
		mustHex("0xfff97272373d413259a46990580e213a"),
		mustHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
		mustHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
		mustHex("0xffcb9843d60f6159c9db58835c926644"),
		mustHex("0xff973b41fa98c081472e6896dfb254c0"),
		mustHex("0xff2ea16466c96a3843ec78b326b52861"),
		mustHex("0xfe5dee046a99a2a811c461f1969c3053"),
		mustHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
		mustHex("0xf987a7253ac413176f2b074cf7815e54"),
		mustHex("0xf3392b0822b70005940c7a398e4b70f3"),
		mustHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
		mustHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
		mustHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
		mustHex("0x70d869a156d2a1b890bb3df62baf32f7"),
		mustHex("0x31be135f97d08fd981231505542fcfa6"),
		mustHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
		mustHex("0x5d6af8dedb81196699c329225ee604"),
		mustHex("0x2216e584f5fa1ea926041bedfe98"),
		mustHex("0x48a170391f7dc42444e8fa2"),
	}
	q128One = mustHex("0x100000000000000000000000000000000")
)

// SqrtPriceAtTick returns sqrt(1.0001^tick) in the format's fixed-point
// encoding.
func (f *Format) SqrtPriceAtTick(tick int32) (*big.Int, error) {
	if tick < f.MinTick || tick > f.MaxTick {
		return nil, ErrTickOutOfBounds
	}

	absTick := int64(tick)
	if absTick < 0 {
		absTick = -absTick
	}

	ratio := new(uint256.Int)
	if absTick&0x1 != 0 {
		ratio.Set(ratioConstants[0])
	} else {
		ratio.Set(q128One)
	}
	for i := 1; i < len(ratioConstants); i++ {
		if absTick&(1<<i) != 0 {
			ratio.Mul(ratio, ratioConstants[i]).Rsh(ratio, 128)
		}
	}

	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	shift := 128 - f.Resolution
	rem := new(uint256.Int).Lsh(u256One, shift)
	rem.Sub(rem, u256One).And(rem, ratio)
	ratio.Rsh(ratio, shift)
	if f.RoundUp && !rem.IsZero() {
		ratio.Add(ratio, u256One)
	}

	return ratio.ToBig(), nil
}

// TickAtSqrtPrice returns the greatest tick whose sqrt price is <= sqrtPrice.
func (f *Format) TickAtSqrtPrice(sqrtPrice *big.Int) (int32, error) {
	if sqrtPrice == nil || sqrtPrice.Cmp(f.minSqrtPrice) < 0 || sqrtPrice.Cmp(f.maxSqrtPrice) > 0 {
		return 0, ErrSqrtPriceOutOfBounds
	}

	low, high := f.MinTick, f.MaxTick
	tick := f.MinTick
	for low <= high {
		mid := low + (high-low)/2
		atMid, err := f.SqrtPriceAtTick(mid)
		if err != nil {
			return 0, err
		}
		if atMid.Cmp(sqrtPrice) <= 0 {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return tick, nil
}

func mustHex(s string) *uint256.Int {
	n, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		panic("bad hex constant " + s)
	}
	return uint256.MustFromBig(n)
}
