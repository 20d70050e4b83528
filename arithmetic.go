package quantity

import (
	"math"

	"github.com/pkg/errors"

	"github.com/njchilds90/goquantity/measurement"
	"github.com/njchilds90/goquantity/symbolic"
	"github.com/njchilds90/goquantity/units"
)

// Every binary operation coerces its right operand with Coerce, leaves both
// operands untouched and returns a new Quantity without a label. When either
// side is symbolic the result is symbolic, and its table is the merge of both
// tables pruned to the symbols still free in the result.

func (q Quantity) concrete(v measurement.Value, u units.Unit) Quantity {
	return Quantity{value: v, unit: u, reg: q.registry()}
}

func (q Quantity) derived(expr symbolic.Expr, u units.Unit, o Quantity) Quantity {
	return Quantity{
		expr:  expr,
		unit:  u,
		table: q.table.Merge(o.table).Prune(expr),
		reg:   q.registry(),
	}
}

func (q Quantity) asExpr() (symbolic.Expr, error) {
	if q.expr != nil {
		return q.expr, nil
	}
	return numberExpr(q.value.Nominal)
}

func exprs(a, b Quantity) (symbolic.Expr, symbolic.Expr, error) {
	l, err := a.asExpr()
	if err != nil {
		return nil, nil, err
	}
	r, err := b.asExpr()
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func scaleExpr(e symbolic.Expr, k float64) (symbolic.Expr, error) {
	if k == 1 {
		return e, nil
	}
	kexpr, err := numberExpr(k)
	if err != nil {
		return nil, err
	}
	return symbolic.MulOf(kexpr, e), nil
}

// Add returns q + v. v is converted into q's unit first; incompatible units
// are an ErrIncompatibleUnits.
func (q Quantity) Add(v any) (Quantity, error) { return q.addSub(v, false) }

// Sub returns q - v, converting v into q's unit.
func (q Quantity) Sub(v any) (Quantity, error) { return q.addSub(v, true) }

func (q Quantity) addSub(v any, subtract bool) (Quantity, error) {
	o, err := Coerce(v)
	if err != nil {
		return Quantity{}, err
	}
	k, err := o.unit.ConversionFactor(q.unit)
	if err != nil {
		return Quantity{}, withCause(ErrIncompatibleUnits, err)
	}
	if !q.IsSymbolic() && !o.IsSymbolic() {
		rv := o.value.Scale(k)
		if subtract {
			return q.concrete(q.value.Sub(rv), q.unit), nil
		}
		return q.concrete(q.value.Add(rv), q.unit), nil
	}
	l, r, err := exprs(q, o)
	if err != nil {
		return Quantity{}, err
	}
	if r, err = scaleExpr(r, k); err != nil {
		return Quantity{}, err
	}
	if subtract {
		return q.derived(symbolic.Difference(l, r), q.unit, o), nil
	}
	return q.derived(symbolic.AddOf(l, r), q.unit, o), nil
}

// Mul returns q * v with the product unit.
func (q Quantity) Mul(v any) (Quantity, error) {
	o, err := Coerce(v)
	if err != nil {
		return Quantity{}, err
	}
	u := q.unit.Mul(o.unit)
	if !q.IsSymbolic() && !o.IsSymbolic() {
		return q.concrete(q.value.Mul(o.value), u), nil
	}
	l, r, err := exprs(q, o)
	if err != nil {
		return Quantity{}, err
	}
	return q.derived(symbolic.MulOf(l, r), u, o), nil
}

// Div returns q / v with the quotient unit.
func (q Quantity) Div(v any) (Quantity, error) {
	o, err := Coerce(v)
	if err != nil {
		return Quantity{}, err
	}
	u := q.unit.Div(o.unit)
	if !q.IsSymbolic() && !o.IsSymbolic() {
		if o.value.Nominal == 0 {
			return Quantity{}, errors.WithStack(ErrDivisionByZero)
		}
		return q.concrete(q.value.Div(o.value), u), nil
	}
	l, r, err := exprs(q, o)
	if err != nil {
		return Quantity{}, err
	}
	if n, ok := r.(*symbolic.Num); ok && n.IsZero() {
		return Quantity{}, errors.WithStack(ErrDivisionByZero)
	}
	return q.derived(symbolic.Quo(l, r), u, o), nil
}

// FloorDiv returns the floor of q / v computed on the evaluated magnitudes,
// with unit q.Unit() / v.Unit(). The result is always concrete and exact.
func (q Quantity) FloorDiv(v any) (Quantity, error) {
	o, err := Coerce(v)
	if err != nil {
		return Quantity{}, err
	}
	a, err := q.Evaluate()
	if err != nil {
		return Quantity{}, err
	}
	b, err := o.Evaluate()
	if err != nil {
		return Quantity{}, err
	}
	if b == 0 {
		return Quantity{}, errors.WithStack(ErrDivisionByZero)
	}
	return q.concrete(measurement.Exact(floorDiv(a, b)), q.unit.Div(o.unit)), nil
}

// floorDiv rounds a/b toward negative infinity the way Python floats do,
// correcting for the rounding error of the plain quotient.
func floorDiv(a, b float64) float64 {
	mod := math.Mod(a, b)
	div := (a - mod) / b
	if mod != 0 && (b < 0) != (mod < 0) {
		div--
	}
	if div == 0 {
		return math.Copysign(0, a/b)
	}
	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor++
	}
	return floor
}

// Pow returns q ** v. The exponent must be dimensionless; the result unit is
// q's unit raised to the exponent's numeric value.
func (q Quantity) Pow(v any) (Quantity, error) {
	e, err := Coerce(v)
	if err != nil {
		return Quantity{}, err
	}
	if !e.unit.IsDimensionless() {
		return Quantity{}, errors.Wrapf(ErrNotDimensionless, "exponent has unit %s", e.unit)
	}
	scale := e.unit.Factor()
	p, err := e.Evaluate()
	if err != nil {
		return Quantity{}, err
	}
	p *= scale
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Quantity{}, errors.Wrapf(ErrUndefined, "exponent %v", p)
	}
	u := q.unit.Pow(p)

	if !q.IsSymbolic() && !e.IsSymbolic() {
		if q.value.Nominal == 0 && p < 0 {
			return Quantity{}, errors.WithStack(ErrDivisionByZero)
		}
		var r measurement.Value
		if e.value.IsExact() {
			r = q.value.Pow(p)
		} else {
			r = q.value.PowValue(e.value.Scale(scale))
		}
		if math.IsNaN(r.Nominal) {
			return Quantity{}, errors.Wrapf(ErrUndefined, "%v ** %v", q.value.Nominal, p)
		}
		return q.concrete(r, u), nil
	}

	base, err := q.asExpr()
	if err != nil {
		return Quantity{}, err
	}
	var exp symbolic.Expr
	if e.IsSymbolic() {
		exp, err = scaleExpr(e.expr, scale)
	} else {
		exp, err = exponentExpr(p)
	}
	if err != nil {
		return Quantity{}, err
	}
	return q.derived(symbolic.PowOf(base, exp), u, e), nil
}

// exponentExpr keeps simple fractional exponents exact, so that x ** 0.5
// prints as sqrt(x) and differentiates without rounding.
func exponentExpr(p float64) (symbolic.Expr, error) {
	for den := int64(1); den <= 12; den++ {
		num := math.Round(p * float64(den))
		if math.Abs(num) < 1e15 && math.Abs(p*float64(den)-num) < 1e-12 {
			return symbolic.F(int64(num), den), nil
		}
	}
	return numberExpr(p)
}

// Neg returns -q.
func (q Quantity) Neg() Quantity {
	if q.expr == nil {
		return q.concrete(q.value.Neg(), q.unit)
	}
	return q.derived(symbolic.Neg(q.expr), q.unit, Quantity{})
}

// RSub returns v - q.
func (q Quantity) RSub(v any) (Quantity, error) {
	o, err := Coerce(v)
	if err != nil {
		return Quantity{}, err
	}
	return o.Sub(q)
}

// RDiv returns v / q.
func (q Quantity) RDiv(v any) (Quantity, error) {
	o, err := Coerce(v)
	if err != nil {
		return Quantity{}, err
	}
	return o.Div(q)
}

// RFloorDiv returns v // q.
func (q Quantity) RFloorDiv(v any) (Quantity, error) {
	o, err := Coerce(v)
	if err != nil {
		return Quantity{}, err
	}
	return o.FloorDiv(q)
}

// RPow returns v ** q.
func (q Quantity) RPow(v any) (Quantity, error) {
	o, err := Coerce(v)
	if err != nil {
		return Quantity{}, err
	}
	return o.Pow(q)
}
