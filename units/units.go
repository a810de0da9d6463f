// Package units implements the unit tags carried by numeric containers.
//
// Every known unit is a linear mapping onto the base unit of its dimension:
// base = value*Scale + Offset. Conversion between two units of the same
// dimension is therefore exact up to floating point and invertible.
package units

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arloliu/fieldset/errs"
)

// Dimensionless is the unit tag of plain numbers.
const Dimensionless = ""

// Unit describes a linear unit of a physical dimension.
type Unit struct {
	Name      string
	Dimension string
	Scale     float64
	Offset    float64
}

func (u Unit) toBase(v float64) float64   { return v*u.Scale + u.Offset }
func (u Unit) fromBase(v float64) float64 { return (v - u.Offset) / u.Scale }

var builtin = map[string]Unit{}

var aliases = map[string]string{
	"C":       "degC",
	"deg_C":   "degC",
	"F":       "degF",
	"deg_F":   "degF",
	"sec":     "s",
	"degree":  "deg",
	"degrees": "deg",
	"percent": "%",
}

func init() {
	for _, u := range []Unit{
		{Name: Dimensionless, Dimension: "dimensionless", Scale: 1},
		{Name: "%", Dimension: "dimensionless", Scale: 0.01},

		{Name: "K", Dimension: "temperature", Scale: 1},
		{Name: "degC", Dimension: "temperature", Scale: 1, Offset: 273.15},
		{Name: "degF", Dimension: "temperature", Scale: 5.0 / 9.0, Offset: 273.15 - 32*5.0/9.0},

		{Name: "m", Dimension: "length", Scale: 1},
		{Name: "km", Dimension: "length", Scale: 1e3},
		{Name: "cm", Dimension: "length", Scale: 1e-2},
		{Name: "mm", Dimension: "length", Scale: 1e-3},

		{Name: "s", Dimension: "time", Scale: 1},
		{Name: "ms", Dimension: "time", Scale: 1e-3},
		{Name: "ks", Dimension: "time", Scale: 1e3},
		{Name: "min", Dimension: "time", Scale: 60},
		{Name: "h", Dimension: "time", Scale: 3600},
		{Name: "d", Dimension: "time", Scale: 86400},

		{Name: "rad", Dimension: "angle", Scale: 1},
		{Name: "deg", Dimension: "angle", Scale: 0.017453292519943295},
		{Name: "arcmin", Dimension: "angle", Scale: 0.017453292519943295 / 60},
		{Name: "arcsec", Dimension: "angle", Scale: 0.017453292519943295 / 3600},

		{Name: "W", Dimension: "power", Scale: 1},
		{Name: "mW", Dimension: "power", Scale: 1e-3},
		{Name: "kW", Dimension: "power", Scale: 1e3},

		{Name: "V", Dimension: "voltage", Scale: 1},
		{Name: "mV", Dimension: "voltage", Scale: 1e-3},

		{Name: "A", Dimension: "current", Scale: 1},
		{Name: "mA", Dimension: "current", Scale: 1e-3},

		{Name: "Pa", Dimension: "pressure", Scale: 1},
		{Name: "kPa", Dimension: "pressure", Scale: 1e3},
		{Name: "psi", Dimension: "pressure", Scale: 6894.757293168361},

		{Name: "J", Dimension: "energy", Scale: 1},
		{Name: "kJ", Dimension: "energy", Scale: 1e3},

		{Name: "Hz", Dimension: "frequency", Scale: 1},
		{Name: "kHz", Dimension: "frequency", Scale: 1e3},
	} {
		builtin[u.Name] = u
	}
}

// Canonical maps an alias such as "C" or "sec" to its canonical name.
// Unknown names are returned unchanged.
func Canonical(name string) string {
	name = strings.TrimSpace(name)
	if c, ok := aliases[name]; ok {
		return c
	}

	return name
}

// Lookup returns the unit registered under name or one of its aliases.
func Lookup(name string) (Unit, bool) {
	u, ok := builtin[Canonical(name)]
	return u, ok
}

// Known reports whether name is a registered unit or alias.
func Known(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Names returns the canonical names of all registered units, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Compatible reports whether values in unit from can be converted to unit to.
func Compatible(from, to string) bool {
	if Canonical(from) == Canonical(to) {
		return true
	}

	fu, ok1 := Lookup(from)
	tu, ok2 := Lookup(to)

	return ok1 && ok2 && fu.Dimension == tu.Dimension
}

// Convert returns a new slice with values rescaled from unit from to unit to.
//
// Identical unit tags always convert, even when the tag is not a registered
// unit (composite tags such as "W/m" produced by container arithmetic).
func Convert(values []float64, from, to string) ([]float64, error) {
	out := make([]float64, len(values))
	if Canonical(from) == Canonical(to) {
		copy(out, values)
		return out, nil
	}

	fu, ok := Lookup(from)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownUnit, from)
	}
	tu, ok := Lookup(to)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownUnit, to)
	}
	if fu.Dimension != tu.Dimension {
		return nil, fmt.Errorf("%w: %q (%s) to %q (%s)", errs.ErrIncompatibleUnits, from, fu.Dimension, to, tu.Dimension)
	}

	for i, v := range values {
		out[i] = tu.fromBase(fu.toBase(v))
	}

	return out, nil
}

// Multiply returns the tag of the product of two unit tags.
func Multiply(a, b string) string {
	return compose(a, b, "*")
}

// Divide returns the tag of the quotient of two unit tags.
func Divide(a, b string) string {
	if a == Dimensionless && b != Dimensionless {
		return "1/" + b
	}

	return compose(a, b, "/")
}

func compose(a, b, op string) string {
	switch {
	case b == Dimensionless:
		return a
	case a == Dimensionless:
		return b
	default:
		return a + op + b
	}
}
