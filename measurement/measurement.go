// Package measurement implements a nominal value with a standard error and
// first-order propagation of errors for independent inputs.
package measurement

import (
	"math"
	"strconv"
)

// Value is a nominal value with standard deviation StdDev. A zero StdDev is
// an exact value.
type Value struct {
	Nominal float64 `json:"nominal"`
	StdDev  float64 `json:"stddev"`
}

// Exact returns v with no uncertainty.
func Exact(v float64) Value { return Value{Nominal: v} }

// New returns nominal +/- |stddev|.
func New(nominal, stddev float64) Value {
	return Value{Nominal: nominal, StdDev: math.Abs(stddev)}
}

// IsExact reports whether the value carries no uncertainty.
func (v Value) IsExact() bool { return v.StdDev == 0 }

// RelErr is StdDev / |Nominal|, or +Inf for a zero nominal with nonzero error.
func (v Value) RelErr() float64 {
	if v.StdDev == 0 {
		return 0
	}
	return v.StdDev / math.Abs(v.Nominal)
}

func (v Value) Add(o Value) Value {
	return Value{Nominal: v.Nominal + o.Nominal, StdDev: math.Hypot(v.StdDev, o.StdDev)}
}

func (v Value) Sub(o Value) Value {
	return Value{Nominal: v.Nominal - o.Nominal, StdDev: math.Hypot(v.StdDev, o.StdDev)}
}

// Mul propagates σ(xy) = sqrt((y σx)² + (x σy)²).
func (v Value) Mul(o Value) Value {
	return Value{
		Nominal: v.Nominal * o.Nominal,
		StdDev:  math.Hypot(o.Nominal*v.StdDev, v.Nominal*o.StdDev),
	}
}

// Div propagates σ(x/y) = sqrt((σx/y)² + (x σy/y²)²).
func (v Value) Div(o Value) Value {
	return Value{
		Nominal: v.Nominal / o.Nominal,
		StdDev:  math.Hypot(v.StdDev/o.Nominal, v.Nominal*o.StdDev/(o.Nominal*o.Nominal)),
	}
}

// Pow raises v to an exact power p.
func (v Value) Pow(p float64) Value {
	n := math.Pow(v.Nominal, p)
	if v.StdDev == 0 {
		return Value{Nominal: n}
	}
	return Value{Nominal: n, StdDev: math.Abs(p * math.Pow(v.Nominal, p-1) * v.StdDev)}
}

// PowValue raises v to an uncertain power, treating both as independent.
func (v Value) PowValue(p Value) Value {
	n := math.Pow(v.Nominal, p.Nominal)
	var dBase, dExp float64
	if v.StdDev != 0 {
		dBase = p.Nominal * math.Pow(v.Nominal, p.Nominal-1) * v.StdDev
	}
	if p.StdDev != 0 {
		dExp = n * math.Log(v.Nominal) * p.StdDev
	}
	return Value{Nominal: n, StdDev: math.Hypot(dBase, dExp)}
}

// Scale multiplies by an exact factor.
func (v Value) Scale(k float64) Value {
	return Value{Nominal: v.Nominal * k, StdDev: math.Abs(v.StdDev * k)}
}

// Neg returns -v.
func (v Value) Neg() Value { return Value{Nominal: -v.Nominal, StdDev: v.StdDev} }

// String prints "7" for an exact value and "(7 +/- 0.1)" otherwise.
func (v Value) String() string {
	n := strconv.FormatFloat(v.Nominal, 'g', -1, 64)
	if v.StdDev == 0 {
		return n
	}
	return "(" + n + " +/- " + strconv.FormatFloat(v.StdDev, 'g', -1, 64) + ")"
}
