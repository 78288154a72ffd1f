package clmm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad big int %q", s)
	return v
}

func TestX96SqrtPriceBounds(t *testing.T) {
	minPrice, err := X96.SqrtPriceAtTick(X96.MinTick)
	require.NoError(t, err)
	assert.Equal(t, "4295128739", minPrice.String())

	maxPrice, err := X96.SqrtPriceAtTick(X96.MaxTick)
	require.NoError(t, err)
	assert.Equal(t, "1461446703485210103287273052203988822378723970342", maxPrice.String())

	atZero, err := X96.SqrtPriceAtTick(0)
	require.NoError(t, err)
	assert.Equal(t, 0, atZero.Cmp(X96.One()))
}

func TestX64SqrtPriceAtTick(t *testing.T) {
	cases := []struct {
		tick int32
		want string
	}{
		{tick: 0, want: "18446744073709551616"},
		{tick: 1, want: "18447666387855959850"},
		{tick: -1, want: "18445821805675392311"},
		{tick: 100, want: "18539204128674405812"},
		{tick: -1000, want: "17547129613991598781"},
		{tick: 1000, want: "19392480388906836277"},
		{tick: -443636, want: "4295048016"},
	}
	for _, tc := range cases {
		got, err := X64.SqrtPriceAtTick(tc.tick)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.String(), "tick %d", tc.tick)
	}
}

func TestSqrtPriceAtTickOutOfBounds(t *testing.T) {
	_, err := X64.SqrtPriceAtTick(X64.MaxTick + 1)
	assert.ErrorIs(t, err, ErrTickOutOfBounds)
	_, err = X96.SqrtPriceAtTick(X96.MinTick - 1)
	assert.ErrorIs(t, err, ErrTickOutOfBounds)
}

func TestTickAtSqrtPriceRoundTrip(t *testing.T) {
	for _, format := range []*Format{X64, X96} {
		for _, tick := range []int32{format.MinTick, -1000, -1, 0, 1, 60, 1000, format.MaxTick} {
			sqrtPrice, err := format.SqrtPriceAtTick(tick)
			require.NoError(t, err)

			got, err := format.TickAtSqrtPrice(sqrtPrice)
			require.NoError(t, err)
			assert.Equal(t, tick, got, "%s tick %d", format.Name, tick)

			if tick < format.MaxTick {
				between := new(big.Int).Add(sqrtPrice, big.NewInt(1))
				got, err = format.TickAtSqrtPrice(between)
				require.NoError(t, err)
				assert.Equal(t, tick, got, "%s tick %d + 1", format.Name, tick)
			}
		}
	}
}

func TestTickAtSqrtPriceOutOfBounds(t *testing.T) {
	_, err := X64.TickAtSqrtPrice(big.NewInt(1))
	assert.ErrorIs(t, err, ErrSqrtPriceOutOfBounds)
	_, err = X64.TickAtSqrtPrice(new(big.Int).Add(X64.MaxSqrtPrice(), big.NewInt(1)))
	assert.ErrorIs(t, err, ErrSqrtPriceOutOfBounds)
}

func TestFormatForBits(t *testing.T) {
	f, err := FormatForBits(0)
	require.NoError(t, err)
	assert.Same(t, X64, f)

	f, err = FormatForBits(96)
	require.NoError(t, err)
	assert.Same(t, X96, f)

	_, err = FormatForBits(128)
	assert.Error(t, err)
}
