package symbolic

import (
	"math"
	"sort"
)

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

type funcDef struct {
	eval  func(float64) float64
	latex string
	// identity is the (argument, result) pair folded exactly, e.g. cos(0) = 1.
	at, is int64
	deriv  func(arg Expr) Expr
}

var funcs map[string]funcDef

func init() {
	oneMinusSq := func(x Expr) Expr { return AddOf(N(1), Neg(PowOf(x, N(2)))) }
	funcs = map[string]funcDef{
		"exp": {math.Exp, `\exp`, 0, 1, func(x Expr) Expr { return ExpOf(x) }},
		"log": {math.Log, `\log`, 1, 0, func(x Expr) Expr { return PowOf(x, N(-1)) }},
		"sin": {math.Sin, `\sin`, 0, 0, func(x Expr) Expr { return CosOf(x) }},
		"cos": {math.Cos, `\cos`, 0, 1, func(x Expr) Expr { return Neg(SinOf(x)) }},
		"tan": {math.Tan, `\tan`, 0, 0, func(x Expr) Expr { return AddOf(N(1), PowOf(TanOf(x), N(2))) }},
		"asin": {math.Asin, `\operatorname{asin}`, 0, 0, func(x Expr) Expr {
			return PowOf(oneMinusSq(x), F(-1, 2))
		}},
		"acos": {math.Acos, `\operatorname{acos}`, 1, 0, func(x Expr) Expr {
			return Neg(PowOf(oneMinusSq(x), F(-1, 2)))
		}},
		"atan": {math.Atan, `\operatorname{atan}`, 0, 0, func(x Expr) Expr {
			return PowOf(AddOf(N(1), PowOf(x, N(2))), N(-1))
		}},
		"sinh": {math.Sinh, `\sinh`, 0, 0, func(x Expr) Expr { return CoshOf(x) }},
		"cosh": {math.Cosh, `\cosh`, 0, 1, func(x Expr) Expr { return SinhOf(x) }},
		"tanh": {math.Tanh, `\tanh`, 0, 0, func(x Expr) Expr { return oneMinusSq(TanhOf(x)) }},
		"asinh": {math.Asinh, `\operatorname{asinh}`, 0, 0, func(x Expr) Expr {
			return PowOf(AddOf(PowOf(x, N(2)), N(1)), F(-1, 2))
		}},
		"acosh": {math.Acosh, `\operatorname{acosh}`, 1, 0, func(x Expr) Expr {
			return PowOf(AddOf(PowOf(x, N(2)), N(-1)), F(-1, 2))
		}},
		"atanh": {math.Atanh, `\operatorname{atanh}`, 0, 0, func(x Expr) Expr {
			return PowOf(oneMinusSq(x), N(-1))
		}},
	}
}

// FuncNames lists the supported function names in sorted order.
func FuncNames() []string {
	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply builds name(arg) for any supported function name.
func Apply(name string, arg Expr) (Expr, bool) {
	if _, ok := funcs[name]; !ok {
		return nil, false
	}
	return funcOf(name, arg).Simplify(), true
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LogOf(arg Expr) Expr   { return funcOf("log", arg).Simplify() }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }
func AsinhOf(arg Expr) Expr { return funcOf("asinh", arg).Simplify() }
func AcoshOf(arg Expr) Expr { return funcOf("acosh", arg).Simplify() }
func AtanhOf(arg Expr) Expr { return funcOf("atanh", arg).Simplify() }

func (f *Func) Kind() Kind { return Call }

// Simplify folds the exact identity of each function and the exp/log
// inverses. Other exact numeric arguments stay unevaluated; approximate
// ones are evaluated.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	def := funcs[f.name]
	if n, ok := arg.(*Num); ok {
		if !n.approx && n.IsInteger() && n.val.Num().IsInt64() && n.val.Num().Int64() == def.at {
			return N(def.is)
		}
		if n.approx {
			if r, ok := approxNum(def.eval(n.Float64())); ok {
				return r
			}
		}
	}
	if inner, ok := arg.(*Func); ok {
		if (f.name == "exp" && inner.name == "log") || (f.name == "log" && inner.name == "exp") {
			return inner.arg
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	return funcs[f.name].latex + "\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if n, ok := du.(*Num); ok && n.IsZero() {
		return N(0)
	}
	return MulOf(funcs[f.name].deriv(f.arg), du)
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	return approxNum(funcs[f.name].eval(n.Float64()))
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }
