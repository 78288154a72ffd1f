package pricing

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToUSDNumeraire(t *testing.T) {
	got := ToUSD(big.NewInt(5_000_000_000), 9, "SUI", "SUI", decimal.NewFromFloat(2.0), decimal.NewFromInt(123))
	assert.True(t, got.Equal(decimal.NewFromInt(10)), "got %s", got)
}

func TestToUSDCrossAsset(t *testing.T) {
	got := ToUSD(big.NewInt(1_000_000), 6, "USDC", "SUI", decimal.NewFromFloat(2.0), decimal.NewFromFloat(3.0))
	assert.True(t, got.Equal(decimal.NewFromInt(6)), "got %s", got)
}

func TestToUSDKeepsPrecisionForEighteenDecimals(t *testing.T) {
	amount, _ := new(big.Int).SetString("123456789012345678901", 10)
	got := ToUSD(amount, 18, "SUI", "SUI", decimal.NewFromInt(1), decimal.Zero)
	assert.Equal(t, "123.456789012345678901", got.String())
}

func TestToUSDNilAndZero(t *testing.T) {
	assert.True(t, ToUSD(nil, 9, "SUI", "SUI", decimal.NewFromInt(2), decimal.Zero).IsZero())
	got := ToUSD(big.NewInt(0), 9, "X", "SUI", decimal.NewFromInt(2), decimal.NewFromInt(3))
	assert.True(t, got.IsZero())
}

func TestConverterDefaultsNumeraire(t *testing.T) {
	c := Converter{NumeraireUSD: decimal.NewFromInt(2)}
	got := c.ToUSD(big.NewInt(1_000_000_000), 9, "SUI", decimal.NewFromInt(50))
	assert.True(t, got.Equal(decimal.NewFromInt(2)), "got %s", got)

	c.NumeraireSymbol = "WBNB"
	got = c.ToUSD(big.NewInt(1_000_000_000), 9, "SUI", decimal.NewFromInt(50))
	assert.True(t, got.Equal(decimal.NewFromInt(100)), "got %s", got)
}

func TestScale(t *testing.T) {
	assert.Equal(t, "1.5", Scale(big.NewInt(1500), 3).String())
	assert.True(t, Scale(nil, 3).IsZero())
}

func TestConverterValue(t *testing.T) {
	c := Converter{NumeraireSymbol: "SUI", NumeraireUSD: decimal.RequireFromString("1.5")}
	got := c.Value(Quote{Amount: big.NewInt(2_000_000), Decimals: 6, Symbol: "USDC", PriceInNumeraire: decimal.NewFromInt(4)})
	assert.True(t, got.Equal(decimal.NewFromInt(12)), "got %s", got)
}
