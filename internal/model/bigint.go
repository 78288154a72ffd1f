package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// BigInt decodes integers that nodes and fixtures encode either as JSON
// numbers or as decimal/0x-hex strings.
type BigInt struct {
	*big.Int
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *BigInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		b.Int = nil
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	if raw == "" {
		b.Int = nil
		return nil
	}

	value, ok := parseBigInt(raw)
	if !ok {
		return fmt.Errorf("invalid integer %q", raw)
	}
	b.Int = value
	return nil
}

// MarshalJSON renders the value as a decimal string.
func (b BigInt) MarshalJSON() ([]byte, error) {
	if b.Int == nil {
		return []byte("null"), nil
	}
	return json.Marshal(b.Int.String())
}

// Value returns a copy of the integer, or zero when unset.
func (b BigInt) Value() *big.Int {
	if b.Int == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.Int)
}

// OrNil returns a copy of the integer, or nil when unset.
func (b BigInt) OrNil() *big.Int {
	if b.Int == nil {
		return nil
	}
	return new(big.Int).Set(b.Int)
}

func parseBigInt(raw string) (*big.Int, bool) {
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		return new(big.Int).SetString(raw[2:], 16)
	}
	return new(big.Int).SetString(raw, 10)
}
