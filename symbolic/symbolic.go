// Package symbolic is the expression engine behind symbolic quantities.
//
// Design goals:
//   - Small, deterministic kernel with stable output
//   - Exact rational arithmetic (math/big.Rat) for coefficients and exponents
//   - Conventional CAS notation: l1*l2**2, 2*l2, x/y, sqrt(x)
//   - Explicit node kinds so callers never sniff concrete types
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Kind classifies an expression node.
type Kind int

const (
	// Atom is a number or a symbol.
	Atom Kind = iota
	// Power is base**exponent.
	Power
	// Product is a product of factors.
	Product
	// Sum is a sum of terms.
	Sum
	// Call is a named function application such as exp(x).
	Call
)

func (k Kind) String() string {
	switch k {
	case Atom:
		return "atom"
	case Power:
		return "power"
	case Product:
		return "product"
	case Sum:
		return "sum"
	case Call:
		return "call"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

type Expr interface {
	Kind() Kind
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
	toJSON() map[string]interface{}
}

// ============================================================
// Num: exact rational, or approximate when built from a float
// ============================================================

type Num struct {
	val    *big.Rat
	approx bool
}

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts f to a number. Integral values stay exact; anything else is
// marked approximate and prints in shortest float form.
func NFloat(f float64) *Num {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic("symbolic: non-finite number")
	}
	r := new(big.Rat).SetFloat64(f)
	return &Num{val: r, approx: !r.IsInt()}
}

func (n *Num) Kind() Kind            { return Atom }
func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Float64() float64 {
	f, _ := n.val.Float64()
	return f
}
func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.val.Cmp(o.val) == 0
}
func (n *Num) IsZero() bool     { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool      { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool   { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool  { return n.val.IsInt() }
func (n *Num) IsApprox() bool   { return n.approx }
func (n *Num) Rat() *big.Rat    { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool { return n.val.Sign() < 0 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if n.approx {
		return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() || n.approx {
		return n.String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func (n *Num) toJSON() map[string]interface{} {
	m := map[string]interface{}{"type": "num", "value": n.val.RatString()}
	if n.approx {
		m["approx"] = true
	}
	return m
}

func numAdd(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Add(a.val, b.val), approx: a.approx || b.approx}
}
func numMul(a, b *Num) *Num {
	return &Num{val: new(big.Rat).Mul(a.val, b.val), approx: a.approx || b.approx}
}
func numNeg(a *Num) *Num { return &Num{val: new(big.Rat).Neg(a.val), approx: a.approx} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val), approx: a.approx}
}

// numPow raises b to an integer power by repeated squaring. ok is false for
// exponents that would blow up the rational representation or divide by zero.
func numPow(b *Num, e int64) (*Num, bool) {
	if e > 64 || e < -64 {
		return nil, false
	}
	if e < 0 && b.IsZero() {
		return nil, false
	}
	neg := e < 0
	if neg {
		e = -e
	}
	result := N(1)
	result.approx = b.approx
	base := b
	for e > 0 {
		if e&1 == 1 {
			result = numMul(result, base)
		}
		base = numMul(base, base)
		e >>= 1
	}
	if neg {
		return numRecip(result), true
	}
	return result, true
}

// approxNum wraps a float result, refusing non-finite values.
func approxNum(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	n := NFloat(f)
	n.approx = true
	return n, true
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Kind() Kind     { return Atom }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return latexSymbol(s.name) }
func (s *Sym) Eval() (*Num, bool) {
	return nil, false
}
func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}
func (s *Sym) Name() string { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// latexSymbol renders trailing digits as a subscript: l12 -> l_{12}.
func latexSymbol(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == 0 || i == len(name) {
		return name
	}
	return name[:i] + "_{" + name[i:] + "}"
}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Kind() Kind { return Sum }

func (a *Add) Simplify() Expr {
	constant := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	var order []string
	var collect func(e Expr)
	collect = func(e Expr) {
		switch v := e.(type) {
		case *Num:
			constant = numAdd(constant, v)
		case *Add:
			for _, t := range v.terms {
				collect(t)
			}
		default:
			coeff, rest := extractCoefficient(v)
			key := rest.String()
			if c, seen := coeffs[key]; seen {
				coeffs[key] = numAdd(c, coeff)
				return
			}
			coeffs[key] = coeff
			rests[key] = rest
			order = append(order, key)
		}
	}
	for _, t := range a.terms {
		collect(t.Simplify())
	}
	sort.Strings(order)
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		coeff := coeffs[key]
		if coeff.IsZero() {
			continue
		}
		if coeff.IsOne() {
			result = append(result, rests[key])
		} else {
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	if !constant.IsZero() {
		result = append(result, constant)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			sb.WriteString(t.String())
			continue
		}
		if isNegativeTerm(t) {
			sb.WriteString(" - ")
			sb.WriteString(Neg(t).String())
		} else {
			sb.WriteString(" + ")
			sb.WriteString(t.String())
		}
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			sb.WriteString(t.LaTeX())
			continue
		}
		if isNegativeTerm(t) {
			sb.WriteString(" - ")
			sb.WriteString(Neg(t).LaTeX())
		} else {
			sb.WriteString(" + ")
			sb.WriteString(t.LaTeX())
		}
	}
	return sb.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

func isNegativeTerm(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsNegative()
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok {
			return c.IsNegative()
		}
	}
	return false
}

func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Kind() Kind { return Product }

func (m *Mul) Simplify() Expr {
	type group struct {
		base, exp Expr
	}
	coeff := N(1)
	groups := map[string]*group{}
	var order []string
	var collect func(e Expr)
	collect = func(e Expr) {
		switch v := e.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			for _, f := range v.factors {
				collect(f)
			}
		default:
			base, exp := splitPower(v)
			key := base.String()
			if g, seen := groups[key]; seen {
				g.exp = AddOf(g.exp, exp)
				return
			}
			groups[key] = &group{base: base, exp: exp}
			order = append(order, key)
		}
	}
	for _, f := range m.factors {
		collect(f.Simplify())
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(order))
	for _, key := range order {
		g := groups[key]
		switch p := PowOf(g.base, g.exp).(type) {
		case *Num:
			coeff = numMul(coeff, p)
		case *Mul:
			for _, f := range p.factors {
				if n, ok := f.(*Num); ok {
					coeff = numMul(coeff, n)
				} else {
					others = append(others, f)
				}
			}
		default:
			others = append(others, p)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e    Expr
		rank int
		key  string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		base, _ := splitPower(e)
		ks[i] = keyed{e: e, rank: factorRank(base), key: base.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].rank != ks[j].rank {
			return ks[i].rank < ks[j].rank
		}
		return ks[i].key < ks[j].key
	})
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

func splitPower(e Expr) (base, exp Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

// factorRank orders factors atoms first, then calls, then sums.
func factorRank(base Expr) int {
	switch base.Kind() {
	case Atom:
		return 0
	case Call:
		return 1
	case Sum:
		return 2
	}
	return 3
}

// fraction splits a product into numerator and denominator factor lists,
// turning negative numeric exponents and rational coefficients around.
func (m *Mul) fraction() (negative bool, num, den []Expr) {
	for _, f := range m.factors {
		if c, ok := f.(*Num); ok {
			if c.IsNegative() {
				negative = true
				c = numNeg(c)
			}
			if c.approx || c.IsInteger() {
				if !c.IsOne() {
					num = append(num, c)
				}
				continue
			}
			if p := (&Num{val: new(big.Rat).SetInt(c.val.Num())}); !p.IsOne() {
				num = append(num, p)
			}
			den = append(den, &Num{val: new(big.Rat).SetInt(c.val.Denom())})
			continue
		}
		if p, ok := f.(*Pow); ok {
			if e, ok2 := p.exp.(*Num); ok2 && e.IsNegative() {
				den = append(den, PowOf(p.base, numNeg(e)))
				continue
			}
		}
		num = append(num, f)
	}
	return negative, num, den
}

func (m *Mul) String() string {
	negative, num, den := m.fraction()
	parts := make([]string, len(num))
	for i, f := range num {
		parts[i] = factorString(f)
	}
	numStr := strings.Join(parts, "*")
	if numStr == "" {
		numStr = "1"
	}
	sign := ""
	if negative {
		sign = "-"
	}
	switch len(den) {
	case 0:
		return sign + numStr
	case 1:
		return sign + numStr + "/" + factorString(den[0])
	}
	dparts := make([]string, len(den))
	for i, f := range den {
		dparts[i] = factorString(f)
	}
	return sign + numStr + "/(" + strings.Join(dparts, "*") + ")"
}

func factorString(f Expr) string {
	if _, isAdd := f.(*Add); isAdd {
		return "(" + f.String() + ")"
	}
	return f.String()
}

func (m *Mul) LaTeX() string {
	negative, num, den := m.fraction()
	join := func(fs []Expr) string {
		parts := make([]string, len(fs))
		for i, f := range fs {
			if _, isAdd := f.(*Add); isAdd {
				parts[i] = "\\left(" + f.LaTeX() + "\\right)"
			} else {
				parts[i] = f.LaTeX()
			}
		}
		return strings.Join(parts, " ")
	}
	sign := ""
	if negative {
		sign = "-"
	}
	numStr := join(num)
	if numStr == "" {
		numStr = "1"
	}
	if len(den) == 0 {
		return sign + numStr
	}
	return sign + "\\frac{" + numStr + "}{" + join(den) + "}"
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors))
		others = append(others, dfi)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(others...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// ============================================================
// Pow: base**exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Kind() Kind { return Power }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	if bn, ok := base.(*Num); ok {
		switch {
		case bn.IsZero():
			// 0**0 is indeterminate; 0**negative is division by zero.
			if expIsNum && en.IsPositive() {
				return N(0)
			}
			return &Pow{base: base, exp: exp}
		case bn.IsOne():
			return N(1)
		}
		if expIsNum && en.IsInteger() {
			if r, ok := numPow(bn, en.val.Num().Int64()); ok {
				return r
			}
		}
		if expIsNum && (bn.approx || en.approx) {
			if r, ok := approxNum(math.Pow(bn.Float64(), en.Float64())); ok {
				return r
			}
		}
	}

	if expIsNum && en.IsInteger() {
		switch b := base.(type) {
		case *Pow:
			return PowOf(b.base, MulOf(b.exp, en))
		case *Mul:
			factors := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				factors[i] = PowOf(f, en)
			}
			return MulOf(factors...)
		}
	}
	return &Pow{base: base, exp: exp}
}

func (p *Pow) String() string {
	if en, ok := p.exp.(*Num); ok && !en.approx {
		switch {
		case en.val.Cmp(big.NewRat(1, 2)) == 0:
			return "sqrt(" + p.base.String() + ")"
		case en.val.Cmp(big.NewRat(-1, 2)) == 0:
			return "1/sqrt(" + p.base.String() + ")"
		case en.IsNegOne():
			return "1/" + p.baseString()
		}
	}
	return p.baseString() + "**" + p.expString()
}

func (p *Pow) baseString() string {
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		return "(" + b.String() + ")"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			return "(" + b.String() + ")"
		}
	}
	return p.base.String()
}

func (p *Pow) expString() string {
	switch e := p.exp.(type) {
	case *Add, *Mul:
		return "(" + e.String() + ")"
	case *Num:
		if e.IsNegative() || (!e.IsInteger() && !e.approx) {
			return "(" + e.String() + ")"
		}
	}
	return p.exp.String()
}

func (p *Pow) LaTeX() string {
	if en, ok := p.exp.(*Num); ok && !en.approx && en.val.Cmp(big.NewRat(1, 2)) == 0 {
		return "\\sqrt{" + p.base.LaTeX() + "}"
	}
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	if en, ok := p.exp.(*Num); ok && en.IsNegative() {
		return "\\frac{1}{" + PowOf(p.base, numNeg(en)).LaTeX() + "}"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if _, baseIsNum := p.base.(*Num); baseIsNum {
		return MulOf(PowOf(p.base, p.exp), LogOf(p.base), dv)
	}
	logTerm := MulOf(dv, LogOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if e.IsInteger() && !e.approx {
		if r, ok := numPow(b, e.val.Num().Int64()); ok {
			return r, true
		}
	}
	return approxNum(math.Pow(b.Float64(), e.Float64()))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// Neg returns -e.
func Neg(e Expr) Expr { return MulOf(N(-1), e) }

// Difference returns a - b.
func Difference(a, b Expr) Expr { return AddOf(a, Neg(b)) }

// Quo returns a / b.
func Quo(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }
