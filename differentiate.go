package quantity

import (
	"github.com/pkg/errors"

	"github.com/njchilds90/goquantity/symbolic"
	"github.com/njchilds90/goquantity/units"
)

// RequireSymbolic returns v as a Quantity if it is a symbolic one. A
// non-Quantity is an ErrType; a concrete Quantity is an ErrNotSymbolic.
func RequireSymbolic(v any) (Quantity, error) {
	var q Quantity
	switch x := v.(type) {
	case Quantity:
		q = x
	case *Quantity:
		if x == nil {
			return Quantity{}, errors.Wrap(ErrUnsupportedType, "nil *Quantity")
		}
		q = *x
	default:
		return Quantity{}, errors.Wrapf(ErrUnsupportedType, "want Quantity, got %T", v)
	}
	if !q.IsSymbolic() {
		return Quantity{}, errors.Wrapf(ErrNotSymbolic, "%s", q)
	}
	return q, nil
}

// Differentiate returns the order-th derivative of q with respect to target,
// which is either a Quantity holding a single base symbol or a symbol name.
//
// Only atoms, powers and products can be differentiated; sums are rejected
// with ErrUnsupportedExpression. The result unit is q's unit divided by the
// target unit raised to order, and the symbol table keeps only the symbols
// still free in the derivative.
//
// A name that is not in q's table is an ErrUnknownSymbol, unless q is
// dimensionless, in which case the name is a constant and the derivative is
// a dimensionless zero.
func Differentiate(q any, target any, order int) (Quantity, error) {
	f, err := RequireSymbolic(q)
	if err != nil {
		return Quantity{}, err
	}
	switch f.expr.Kind() {
	case symbolic.Atom, symbolic.Power, symbolic.Product:
	default:
		return Quantity{}, errors.Wrapf(ErrUnsupportedExpression, "cannot differentiate %s expression %s", f.expr.Kind(), f.expr)
	}
	if order < 0 {
		return Quantity{}, errors.Wrapf(ErrValue, "negative derivative order %d", order)
	}

	var (
		name string
		unit units.Unit
	)
	switch t := target.(type) {
	case Quantity:
		name, unit, err = targetSymbol(t)
	case *Quantity:
		if t == nil {
			return Quantity{}, errors.Wrap(ErrUnsupportedType, "nil *Quantity target")
		}
		name, unit, err = targetSymbol(*t)
	case string:
		b, ok := f.table.Lookup(t)
		if !ok {
			if !f.unit.IsDimensionless() {
				return Quantity{}, errors.Wrapf(ErrUnknownSymbol, "%q is not bound in %s", t, f.expr)
			}
			return Quantity{expr: symbolic.N(0), unit: units.Dimensionless, label: f.label, reg: f.registry()}, nil
		}
		name, unit = t, b.Unit
	default:
		return Quantity{}, errors.Wrapf(ErrUnsupportedType, "target must be a Quantity or a symbol name, got %T", target)
	}
	if err != nil {
		return Quantity{}, err
	}

	d := symbolic.DiffN(f.expr, name, order)
	return Quantity{
		expr:  d,
		unit:  f.unit.Div(unit.Pow(float64(order))),
		label: f.label,
		table: f.table.Prune(d),
		reg:   f.registry(),
	}, nil
}

// targetSymbol extracts the base symbol of a target quantity and the unit it
// is bound to.
func targetSymbol(t Quantity) (string, units.Unit, error) {
	sym, ok := t.expr.(*symbolic.Sym)
	if !ok {
		return "", units.Unit{}, errors.Wrapf(ErrUnsupportedExpression, "target %s is not a single symbol", t)
	}
	if b, ok := t.table.Lookup(sym.Name()); ok {
		return sym.Name(), b.Unit, nil
	}
	return sym.Name(), t.unit, nil
}
