package pricing

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// DefaultNumeraireSymbol is the symbol of the reference asset on Sui.
const DefaultNumeraireSymbol = "SUI"

// ToUSD converts a raw token amount into USD. When symbol is the numeraire
// the amount is priced at numeraireUSD directly, otherwise it is first
// converted to the numeraire at priceInNumeraire.
func ToUSD(amount *big.Int, decimals uint8, symbol string, numeraireSymbol string, numeraireUSD, priceInNumeraire decimal.Decimal) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	value := decimal.NewFromBigInt(amount, -int32(decimals)).Mul(numeraireUSD)
	if symbol == numeraireSymbol {
		return value
	}
	return value.Mul(priceInNumeraire)
}

// Converter prices amounts against a fixed numeraire.
type Converter struct {
	NumeraireSymbol string
	NumeraireUSD    decimal.Decimal
}

// ToUSD converts amount of the given coin using the coin's price in the numeraire.
func (c Converter) ToUSD(amount *big.Int, decimals uint8, symbol string, priceInNumeraire decimal.Decimal) decimal.Decimal {
	numeraire := c.NumeraireSymbol
	if numeraire == "" {
		numeraire = DefaultNumeraireSymbol
	}
	return ToUSD(amount, decimals, symbol, numeraire, c.NumeraireUSD, priceInNumeraire)
}

// Scale returns amount / 10^decimals.
func Scale(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// Quote is a single amount to be priced.
type Quote struct {
	Amount           *big.Int
	Decimals         uint8
	Symbol           string
	PriceInNumeraire decimal.Decimal
}

// Value prices q against the converter's numeraire.
func (c Converter) Value(q Quote) decimal.Decimal {
	return c.ToUSD(q.Amount, q.Decimals, q.Symbol, q.PriceInNumeraire)
}
