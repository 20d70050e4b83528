package units

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// term is one resolved unit raised to an exponent, e.g. kilometer**2.
type term struct {
	name   string
	symbol string
	factor float64
	dims   Dimension
	exp    float64
}

// Unit is an immutable product of named units with real exponents. The zero
// Unit is dimensionless. Units do not reference the registry that produced
// them, so they can be freely combined and compared.
type Unit struct {
	terms map[string]term
}

// Dimensionless is the empty unit.
var Dimensionless = Unit{}

func (u Unit) with(extra map[string]term, scale float64) Unit {
	out := make(map[string]term, len(u.terms)+len(extra))
	for k, t := range u.terms {
		out[k] = t
	}
	for k, t := range extra {
		cur, ok := out[k]
		if !ok {
			cur = t
			cur.exp = 0
		}
		cur.exp += t.exp * scale
		if math.Abs(cur.exp) <= tolerance {
			delete(out, k)
			continue
		}
		out[k] = cur
	}
	return Unit{terms: out}
}

// Mul returns u * o.
func (u Unit) Mul(o Unit) Unit { return u.with(o.terms, 1) }

// Div returns u / o.
func (u Unit) Div(o Unit) Unit { return u.with(o.terms, -1) }

// Pow returns u ** p.
func (u Unit) Pow(p float64) Unit { return Dimensionless.with(u.terms, p) }

// Factor is the multiplier that converts one of u into coherent SI base units.
func (u Unit) Factor() float64 {
	f := 1.0
	for _, t := range u.terms {
		f *= math.Pow(t.factor, t.exp)
	}
	return f
}

// Dimensionality is the combined base-dimension exponents of u.
func (u Unit) Dimensionality() Dimension {
	d := Dimension{}
	for _, t := range u.terms {
		d = d.scaled(t.dims, t.exp)
	}
	return d
}

// IsDimensionless reports whether u has no base dimensions. This holds for
// radian or meter/centimeter as well as the empty unit.
func (u Unit) IsDimensionless() bool { return u.Dimensionality().IsZero() }

// IsCompatible reports whether u and o measure the same kind of thing.
func (u Unit) IsCompatible(o Unit) bool { return u.Dimensionality().Equal(o.Dimensionality()) }

// ConversionFactor returns k such that x [u] == x*k [to].
func (u Unit) ConversionFactor(to Unit) (float64, error) {
	if !u.IsCompatible(to) {
		return 0, errors.Wrapf(ErrIncompatible, "cannot convert from %q (%s) to %q (%s)",
			u, u.Dimensionality(), to, to.Dimensionality())
	}
	return u.Factor() / to.Factor(), nil
}

// Equal reports whether u and o are built from the same units with the same
// exponents. meter and centimeter are compatible but not equal.
func (u Unit) Equal(o Unit) bool {
	if len(u.terms) != len(o.terms) {
		return false
	}
	for k, t := range u.terms {
		ot, ok := o.terms[k]
		if !ok || math.Abs(t.exp-ot.exp) > tolerance {
			return false
		}
	}
	return true
}

// Exponents returns the unit names of u mapped to their exponents.
func (u Unit) Exponents() map[string]float64 {
	out := make(map[string]float64, len(u.terms))
	for k, t := range u.terms {
		out[k] = t.exp
	}
	return out
}

func (u Unit) sortedTerms() []term {
	ts := make([]term, 0, len(u.terms))
	for _, t := range u.terms {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].name < ts[j].name })
	return ts
}

// String renders the canonical long form: "kilogram * meter / second ** 2",
// "1 / second", "dimensionless".
func (u Unit) String() string {
	var num, den []string
	for _, t := range u.sortedTerms() {
		if t.exp > 0 {
			num = append(num, powerString(t.name, t.exp))
		} else {
			den = append(den, powerString(t.name, -t.exp))
		}
	}
	return joinFraction(num, den)
}

// Abbreviated renders the same form using unit symbols: "kg * m / s ** 2".
func (u Unit) Abbreviated() string {
	var num, den []string
	for _, t := range u.sortedTerms() {
		if t.exp > 0 {
			num = append(num, powerString(t.symbol, t.exp))
		} else {
			den = append(den, powerString(t.symbol, -t.exp))
		}
	}
	return joinFraction(num, den)
}

// LaTeX renders u for math mode. Abbreviated output uses symbols, otherwise
// spelled-out names. The dimensionless unit renders as the empty string.
func (u Unit) LaTeX(abbreviated bool) string {
	var num, den []string
	for _, t := range u.sortedTerms() {
		label := t.name
		if abbreviated {
			label = t.symbol
		}
		label = `\mathrm{` + strings.ReplaceAll(label, "_", `\_`) + `}`
		e := t.exp
		if e < 0 {
			e = -e
		}
		if e != 1 {
			label += "^{" + formatExponent(e) + "}"
		}
		if t.exp > 0 {
			num = append(num, label)
		} else {
			den = append(den, label)
		}
	}
	numStr := strings.Join(num, ` \cdot `)
	if len(den) == 0 {
		return numStr
	}
	if numStr == "" {
		numStr = "1"
	}
	return `\frac{` + numStr + `}{` + strings.Join(den, ` \cdot `) + `}`
}

// MarshalText encodes u in its canonical string form.
func (u Unit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }
