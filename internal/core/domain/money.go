package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency identifies which balance an amount belongs to.
type Currency string

const (
	CurrencyETB Currency = "ETB" // fiat
	CurrencyETP Currency = "ETP" // points
)

// Amount is a money value in minor units (santim; 100 santim = 1 ETB).
// All balance and fee arithmetic happens in minor units so accumulation
// never drifts; decimal conversion is confined to the API boundary.
type Amount int64

// minorFactor converts between major display units and minor units.
var minorFactor = decimal.NewFromInt(100)

// ParseAmount converts a decimal string ("500.00") into minor units.
// More than two fractional digits is rejected.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	minor := d.Mul(minorFactor)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-minor-unit precision", s)
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %q out of range", s)
	}
	return Amount(minor.IntPart()), nil
}

// String formats the amount as a two-decimal string.
func (a Amount) String() string {
	return decimal.NewFromInt(int64(a)).Div(minorFactor).StringFixed(2)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// ConvertAtRate divides a fiat amount by rate (fiat minor units per point
// minor unit), rounding half away from zero to the nearest minor unit.
func ConvertAtRate(fiat Amount, rate int64) Amount {
	pts := decimal.NewFromInt(int64(fiat)).
		Div(decimal.NewFromInt(rate)).
		Round(0)
	return Amount(pts.IntPart())
}
