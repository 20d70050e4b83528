package quantity

import (
	"github.com/pkg/errors"

	"github.com/njchilds90/goquantity/symbolic"
)

// Elementary functions. Each takes a symbolic, dimensionless Quantity and
// returns the function applied to its expression with the same unit, symbol
// table and label.

func apply(v any, name string, fn func(symbolic.Expr) symbolic.Expr) (Quantity, error) {
	q, err := RequireSymbolic(v)
	if err != nil {
		return Quantity{}, err
	}
	if !q.unit.IsDimensionless() {
		return Quantity{}, errors.Wrapf(ErrNotDimensionless, "%s of %s", name, q.unit)
	}
	r := q
	r.expr = fn(q.expr)
	return r, nil
}

func Exp(q any) (Quantity, error)   { return apply(q, "exp", symbolic.ExpOf) }
func Log(q any) (Quantity, error)   { return apply(q, "log", symbolic.LogOf) }
func Sqrt(q any) (Quantity, error)  { return apply(q, "sqrt", symbolic.SqrtOf) }
func Sin(q any) (Quantity, error)   { return apply(q, "sin", symbolic.SinOf) }
func Cos(q any) (Quantity, error)   { return apply(q, "cos", symbolic.CosOf) }
func Tan(q any) (Quantity, error)   { return apply(q, "tan", symbolic.TanOf) }
func Asin(q any) (Quantity, error)  { return apply(q, "asin", symbolic.AsinOf) }
func Acos(q any) (Quantity, error)  { return apply(q, "acos", symbolic.AcosOf) }
func Atan(q any) (Quantity, error)  { return apply(q, "atan", symbolic.AtanOf) }
func Sinh(q any) (Quantity, error)  { return apply(q, "sinh", symbolic.SinhOf) }
func Cosh(q any) (Quantity, error)  { return apply(q, "cosh", symbolic.CoshOf) }
func Tanh(q any) (Quantity, error)  { return apply(q, "tanh", symbolic.TanhOf) }
func Asinh(q any) (Quantity, error) { return apply(q, "asinh", symbolic.AsinhOf) }
func Acosh(q any) (Quantity, error) { return apply(q, "acosh", symbolic.AcoshOf) }
func Atanh(q any) (Quantity, error) { return apply(q, "atanh", symbolic.AtanhOf) }

// Ln is the natural logarithm, the same as Log.
func Ln(q any) (Quantity, error) { return apply(q, "ln", symbolic.LogOf) }
