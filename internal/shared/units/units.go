// Package units converts between human-readable token/ether amounts and the
// 18-decimal minor units every ledger amount is stored in.
package units

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Decimals is the precision of both the governance token and the native asset.
const Decimals = 18

var (
	ErrInvalidAmount  = errors.New("amount is not a valid non-negative number")
	ErrAmountOverflow = errors.New("amount does not fit in 256 bits")
	ErrTooPrecise     = errors.New("amount has more than 18 fractional digits")
)

// ParseUnits parses a human amount such as "0.01" or "1000000" into minor units.
func ParseUnits(value string) (uint256.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return uint256.Int{}, ErrInvalidAmount
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return uint256.Int{}, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	if parsed.IsNegative() {
		return uint256.Int{}, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	shifted := parsed.Shift(Decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return uint256.Int{}, fmt.Errorf("%w: %q", ErrTooPrecise, value)
	}
	out, overflow := uint256.FromBig(shifted.BigInt())
	if overflow {
		return uint256.Int{}, fmt.Errorf("%w: %q", ErrAmountOverflow, value)
	}
	return *out, nil
}

// MustParseUnits is ParseUnits for package-level defaults and tests.
func MustParseUnits(value string) uint256.Int {
	out, err := ParseUnits(value)
	if err != nil {
		panic(err)
	}
	return out
}

// ParseMinor parses a base-10 string of minor units (wei).
func ParseMinor(value string) (uint256.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return uint256.Int{}, ErrInvalidAmount
	}
	out, err := uint256.FromDecimal(value)
	if err != nil {
		return uint256.Int{}, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	return *out, nil
}

// FormatUnits renders minor units as a trimmed human decimal ("0.01").
func FormatUnits(amount uint256.Int) string {
	return decimal.NewFromBigInt(amount.ToBig(), -Decimals).String()
}

// FormatMinor renders minor units as a base-10 string.
func FormatMinor(amount uint256.Int) string {
	return amount.Dec()
}
