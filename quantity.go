// Package quantity provides a value type for physical quantities.
//
// A Quantity is a magnitude tied to a unit. It may instead carry a symbolic
// expression over named base symbols, each bound to a unit and value, so that
// formulas can be built with ordinary arithmetic, differentiated, and
// evaluated on demand. Concrete magnitudes may carry a standard error that is
// propagated to first order.
//
// Design goals:
//   - Immutable values; every operation returns a new Quantity
//   - Units derived automatically and checked for compatibility
//   - Symbol tables merged without aliasing and pruned to what is still needed
//   - Explicit errors classified as ErrType or ErrValue
package quantity

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/njchilds90/goquantity/measurement"
	"github.com/njchilds90/goquantity/symbolic"
	"github.com/njchilds90/goquantity/units"
)

// Quantity is a physical quantity. The zero value is a dimensionless zero.
type Quantity struct {
	// expr is nil for a concrete quantity.
	expr  symbolic.Expr
	value measurement.Value
	unit  units.Unit
	label string
	table SymbolTable
	reg   *units.Registry
}

// ============================================================
// Construction
// ============================================================

type symbolKind int

const (
	symbolNone symbolKind = iota
	symbolUnbound
	symbolBound
)

// symbolArg is resolved once by New: no symbol, a fresh base symbol, or a
// prebuilt expression.
type symbolArg struct {
	kind symbolKind
	name string
	expr symbolic.Expr
}

type options struct {
	label string
	sym   symbolArg
	sigma float64
	reg   *units.Registry
	table SymbolTable
}

// Option configures New.
type Option func(*options)

// WithLabel sets a display name used when rendering, as in "x = 3 meter".
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// WithSymbol makes the quantity symbolic over a fresh base symbol called name,
// bound to the constructor's magnitude, unit and uncertainty. An empty or
// numeric name leaves the quantity concrete.
func WithSymbol(name string) Option {
	return func(o *options) { o.sym = symbolArg{kind: symbolUnbound, name: name} }
}

// WithExpr makes the quantity symbolic over an existing expression. The
// magnitude argument of New is ignored.
func WithExpr(expr symbolic.Expr) Option {
	return func(o *options) {
		if expr != nil {
			o.sym = symbolArg{kind: symbolBound, expr: expr}
		}
	}
}

// WithUncertainty attaches a standard error to the magnitude.
func WithUncertainty(sigma float64) Option {
	return func(o *options) { o.sigma = math.Abs(sigma) }
}

// WithRegistry parses the unit with reg instead of units.Default().
func WithRegistry(reg *units.Registry) Option {
	return func(o *options) { o.reg = reg }
}

// withSymbolTable seeds the symbol table of a bound expression.
func withSymbolTable(t SymbolTable) Option {
	return func(o *options) { o.table = t }
}

// New builds a Quantity of magnitude in unit.
func New(magnitude float64, unit string, opts ...Option) (Quantity, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.reg == nil {
		o.reg = units.Default()
	}
	u, err := o.reg.Parse(unit)
	if err != nil {
		return Quantity{}, withCause(ErrInvalidUnit, err)
	}

	q := Quantity{
		value: measurement.New(magnitude, o.sigma),
		unit:  u,
		label: o.label,
		reg:   o.reg,
	}
	switch o.sym.kind {
	case symbolUnbound:
		if isSymbolName(o.sym.name) {
			q.expr = symbolic.S(o.sym.name)
			q.table = o.table.With(o.sym.name, Binding{Unit: u, Value: q.value})
			q.value = measurement.Value{}
		}
	case symbolBound:
		q.expr = o.sym.expr
		q.table = o.table.Prune(q.expr)
		q.value = measurement.Value{}
	}
	return q, nil
}

// MustNew is like New but panics on error.
func MustNew(magnitude float64, unit string, opts ...Option) Quantity {
	q, err := New(magnitude, unit, opts...)
	if err != nil {
		panic(err)
	}
	return q
}

func isSymbolName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	_, err := strconv.ParseFloat(name, 64)
	return err != nil
}

// ============================================================
// Accessors
// ============================================================

// IsSymbolic reports whether q holds an expression rather than a number.
func (q Quantity) IsSymbolic() bool { return q.expr != nil }

// Expr returns the expression of a symbolic quantity, or nil.
func (q Quantity) Expr() symbolic.Expr { return q.expr }

func (q Quantity) Unit() units.Unit { return q.unit }
func (q Quantity) Label() string    { return q.label }

// Symbols returns the symbol table. Symbolic quantities only.
func (q Quantity) Symbols() SymbolTable { return q.table }

func (q Quantity) registry() *units.Registry {
	if q.reg == nil {
		return units.Default()
	}
	return q.reg
}

// Magnitude returns the numeric magnitude, evaluating a symbolic quantity
// from its bindings on every call. It returns NaN when evaluation fails; use
// Evaluate to see why.
func (q Quantity) Magnitude() float64 {
	v, err := q.Evaluate()
	if err != nil {
		return math.NaN()
	}
	return v
}

// Evaluate substitutes every binding, in sorted name order, into the
// expression and returns the numeric result. Concrete quantities return
// their magnitude.
func (q Quantity) Evaluate() (float64, error) {
	if q.expr == nil {
		return q.value.Nominal, nil
	}
	return q.evalExpr(q.expr)
}

func (q Quantity) evalExpr(expr symbolic.Expr) (float64, error) {
	values, err := q.table.values()
	if err != nil {
		return 0, err
	}
	result := symbolic.Subs(expr, values)
	n, ok := result.Eval()
	if ok {
		return n.Float64(), nil
	}
	if free := symbolic.SortedSymbols(result); len(free) > 0 {
		return 0, errors.Wrapf(ErrUnknownSymbol, "no binding for %s", strings.Join(free, ", "))
	}
	return 0, errors.Wrapf(ErrUndefined, "%s", expr)
}

// Uncertainty returns the standard error. For a symbolic quantity it is
// propagated to first order through the partial derivatives with respect to
// every uncertain binding; NaN if that evaluation fails.
func (q Quantity) Uncertainty() float64 {
	if q.expr == nil {
		return q.value.StdDev
	}
	var sum float64
	for _, name := range q.table.Names() {
		b, _ := q.table.Lookup(name)
		if b.Value.StdDev == 0 {
			continue
		}
		d, err := q.evalExpr(symbolic.Diff(q.expr, name))
		if err != nil {
			return math.NaN()
		}
		sum += (d * b.Value.StdDev) * (d * b.Value.StdDev)
	}
	return math.Sqrt(sum)
}

// Value returns the magnitude with its standard error.
func (q Quantity) Value() measurement.Value {
	if q.expr == nil {
		return q.value
	}
	return measurement.Value{Nominal: q.Magnitude(), StdDev: q.Uncertainty()}
}

// Equal reports whether q and o are the same quantity: same mode, equal
// units, and equal values or equal expressions and tables. Labels are
// ignored.
func (q Quantity) Equal(o Quantity) bool {
	if q.IsSymbolic() != o.IsSymbolic() || !q.unit.Equal(o.unit) {
		return false
	}
	if q.expr == nil {
		return q.value == o.value
	}
	return q.expr.Equal(o.expr) && q.table.Equal(o.table)
}

// To converts q into a compatible unit.
func (q Quantity) To(unit string) (Quantity, error) {
	target, err := q.registry().Parse(unit)
	if err != nil {
		return Quantity{}, withCause(ErrInvalidUnit, err)
	}
	k, err := q.unit.ConversionFactor(target)
	if err != nil {
		return Quantity{}, withCause(ErrIncompatibleUnits, err)
	}
	r := q
	r.unit = target
	if q.expr == nil {
		r.value = q.value.Scale(k)
		return r, nil
	}
	if k != 1 {
		kexpr, err := numberExpr(k)
		if err != nil {
			return Quantity{}, err
		}
		r.expr = symbolic.MulOf(kexpr, q.expr)
	}
	return r, nil
}

// numberExpr converts a float to an expression; integral values stay exact.
func numberExpr(f float64) (symbolic.Expr, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.Wrapf(ErrUndefined, "non-finite value %v", f)
	}
	return symbolic.NFloat(f), nil
}
