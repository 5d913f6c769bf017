// Package units converts operator-entered quantities into a product's stored
// unit. The unit set is fixed: mass (g, kg), volume (ml, l) and an opaque count
// unit (pcs) that only converts to itself.
package units

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the fixed number of decimal places for all stock quantities.
const Scale = 3

type Unit string

const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Piece      Unit = "pcs"
)

type family int

const (
	familyMass family = iota
	familyVolume
	familyCount
)

// factor converts a unit into its family base (g for mass, ml for volume).
var factors = map[Unit]struct {
	family family
	factor decimal.Decimal
}{
	Gram:       {familyMass, decimal.NewFromInt(1)},
	Kilogram:   {familyMass, decimal.NewFromInt(1000)},
	Milliliter: {familyVolume, decimal.NewFromInt(1)},
	Liter:      {familyVolume, decimal.NewFromInt(1000)},
	Piece:      {familyCount, decimal.NewFromInt(1)},
}

// UnsupportedUnitError reports a conversion outside the fixed unit set or
// across unit families.
type UnsupportedUnitError struct {
	From string
	To   string
}

func (e *UnsupportedUnitError) Error() string {
	return fmt.Sprintf("unsupported unit conversion from %q to %q", e.From, e.To)
}

// Valid reports whether u is one of the supported units.
func Valid(u Unit) bool {
	_, ok := factors[u]
	return ok
}

// Round normalizes a quantity to the fixed scale, rounding halves up.
func Round(q decimal.Decimal) decimal.Decimal {
	return q.Round(Scale)
}

// Convert translates quantity from one unit into another using the linear
// family factors. Identity conversions are lossless apart from scale
// normalization, so repeated conversions are reproducible.
func Convert(quantity decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	src, ok := factors[from]
	if !ok {
		return decimal.Zero, &UnsupportedUnitError{From: string(from), To: string(to)}
	}
	dst, ok := factors[to]
	if !ok {
		return decimal.Zero, &UnsupportedUnitError{From: string(from), To: string(to)}
	}

	if from == to {
		return Round(quantity), nil
	}
	if src.family != dst.family || src.family == familyCount {
		return decimal.Zero, &UnsupportedUnitError{From: string(from), To: string(to)}
	}

	return Round(quantity.Mul(src.factor).Div(dst.factor)), nil
}
