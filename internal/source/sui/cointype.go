package sui

import (
	"strings"
)

// NormalizeCoinType lowercases the address part of a Move type tag and pads
// it to 32 bytes, so "0x2::sui::SUI" and "0000...0002::sui::SUI" compare equal.
func NormalizeCoinType(coinType string) string {
	coinType = strings.TrimSpace(coinType)
	sep := strings.Index(coinType, "::")
	if sep < 0 {
		return normalizeAddress(coinType)
	}
	return normalizeAddress(coinType[:sep]) + coinType[sep:]
}

func normalizeAddress(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	addr = strings.TrimPrefix(addr, "0x")
	if len(addr) < 64 {
		addr = strings.Repeat("0", 64-len(addr)) + addr
	}
	return "0x" + addr
}

// typeArgs returns the top-level type arguments of a Move struct type, e.g.
// "pkg::pool::Pool<A, B>" yields [A B].
func typeArgs(structType string) []string {
	open := strings.Index(structType, "<")
	end := strings.LastIndex(structType, ">")
	if open < 0 || end <= open {
		return nil
	}
	inner := structType[open+1 : end]

	var args []string
	depth, start := 0, 0
	for i, r := range inner {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(inner[start:]); rest != "" {
		args = append(args, rest)
	}
	return args
}
