// Package fixedpoint implements the 18 decimal scaled integer arithmetic used
// for every amount and rate. Values are decimal.Decimal holding whole base
// units: 1.5 currency units is 1500000000000000000. Every operation truncates
// toward zero so results match an unsigned 256 bit integer implementation
// bit for bit.
package fixedpoint

import (
	"math/big"
	"strings"

	ierr "github.com/invoicebuild/invoicebuild/internal/errors"
	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits carried by a base unit amount
const Decimals = 18

var (
	// One is 1.0 expressed in base units
	One = decimal.New(1, Decimals)

	// MaxUint256 is the largest value accepted at the encoding boundary
	MaxUint256 = decimal.NewFromBigInt(
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)),
		0,
	)
)

// Mul multiplies two fixed point values and rescales the product back to 18
// decimals, truncating the remainder
func Mul(a, b decimal.Decimal) decimal.Decimal {
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	return decimal.NewFromBigInt(product.Quo(product, One.BigInt()), 0)
}

// DivInt divides a base unit amount by a plain integer, truncating the remainder
func DivInt(a decimal.Decimal, n int64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Quo(a.BigInt(), big.NewInt(n)), 0)
}

// MulInt multiplies a base unit amount by a plain integer
func MulInt(a decimal.Decimal, n int64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Mul(a.BigInt(), big.NewInt(n)), 0)
}

// IsInteger reports whether d has no fractional base units
func IsInteger(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// ValidateUint256 checks that d can be represented as an unsigned 256 bit
// integer of base units. Negative, fractional and oversized values fail with
// ErrValueOutOfRange.
func ValidateUint256(field string, d decimal.Decimal) error {
	switch {
	case d.IsNegative():
		return outOfRange(field, d, "must not be negative")
	case !IsInteger(d):
		return outOfRange(field, d, "must be a whole number of base units")
	case d.GreaterThan(MaxUint256):
		return outOfRange(field, d, "must fit in 256 bits")
	}
	return nil
}

func outOfRange(field string, d decimal.Decimal, reason string) error {
	return ierr.NewError("value out-of-bounds").
		WithHintf("%s %s", field, reason).
		WithReportableDetails(map[string]any{
			"field": field,
			"value": d.String(),
		}).
		Mark(ierr.ErrValueOutOfRange)
}

// ParseUnits converts a human readable amount such as "150.5" into base units.
// More than 18 fractional digits is rejected rather than rounded.
func ParseUnits(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHintf("%q is not a number", s).
			Mark(ierr.ErrValidation)
	}

	units := d.Shift(Decimals)
	if !IsInteger(units) {
		return decimal.Zero, ierr.NewError("too many decimals").
			WithHintf("%q has more than %d decimal places", s, Decimals).
			Mark(ierr.ErrValueOutOfRange)
	}
	return units.Truncate(0), nil
}

// MustParseUnits is ParseUnits for constants and tests
func MustParseUnits(s string) decimal.Decimal {
	d, err := ParseUnits(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FormatUnits renders base units as a human readable amount
func FormatUnits(d decimal.Decimal) string {
	return d.Shift(-Decimals).String()
}

// FormatUnitsTruncated renders base units with at most places decimals,
// dropping the rest
func FormatUnitsTruncated(d decimal.Decimal, places int32) string {
	return d.Shift(-Decimals).Truncate(places).String()
}
