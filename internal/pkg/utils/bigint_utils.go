package utils

import (
	"math/big"
	"strings"
)

// Pow10 returns 10^decimals as a big.Int.
func Pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// RatFromSmallestUnit shifts a smallest-unit amount into decimal form.
// Example: amount=1234500000000000000, decimals=18 => 1.2345
func RatFromSmallestUnit(amount *big.Int, decimals uint8) *big.Rat {
	if amount == nil {
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(new(big.Int).Set(amount), Pow10(decimals))
}

// RatToSmallestUnit shifts a decimal amount into the smallest unit, rounding down.
func RatToSmallestUnit(amount *big.Rat, decimals uint8) *big.Int {
	if amount == nil {
		return new(big.Int)
	}
	scaled := new(big.Rat).Mul(amount, new(big.Rat).SetInt(Pow10(decimals)))
	return new(big.Int).Quo(scaled.Num(), scaled.Denom())
}

// FormatRat renders a decimal amount as a plain string with up to maxPlaces
// fractional digits, trailing zeros trimmed.
func FormatRat(amount *big.Rat, maxPlaces uint8) string {
	if amount == nil {
		return "0"
	}
	s := amount.FloatString(int(maxPlaces))
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// FormatBigInt converts a smallest-unit amount to a human-readable decimal
// string. Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}
	return FormatRat(RatFromSmallestUnit(amount, decimals), decimals)
}
