package quantity

import (
	"sort"

	"src.elv.sh/pkg/persistent/hash"
	"src.elv.sh/pkg/persistent/hashmap"

	"github.com/njchilds90/goquantity/measurement"
	"github.com/njchilds90/goquantity/symbolic"
	"github.com/njchilds90/goquantity/units"
)

// Binding is the ground truth behind a base symbol: the unit and value it
// was declared with.
type Binding struct {
	Unit  units.Unit
	Value measurement.Value
}

// Equal compares unit and value.
func (b Binding) Equal(o Binding) bool { return b.Unit.Equal(o.Unit) && b.Value == o.Value }

var emptyTable = hashmap.New(
	func(k1, k2 any) bool { return k1 == k2 },
	func(k any) uint32 { return hash.String(k.(string)) },
)

// SymbolTable maps base symbol names to their bindings. It is persistent:
// every update returns a new table sharing structure with the old one, so a
// table held by one Quantity is never changed by operations on another. The
// zero SymbolTable is empty and ready to use.
type SymbolTable struct {
	m hashmap.Map
}

func (t SymbolTable) root() hashmap.Map {
	if t.m == nil {
		return emptyTable
	}
	return t.m
}

// Len is the number of bound symbols.
func (t SymbolTable) Len() int { return t.root().Len() }

// Lookup returns the binding for name.
func (t SymbolTable) Lookup(name string) (Binding, bool) {
	v, ok := t.root().Index(name)
	if !ok {
		return Binding{}, false
	}
	return v.(Binding), true
}

// With returns a table that also binds name.
func (t SymbolTable) With(name string, b Binding) SymbolTable {
	return SymbolTable{m: t.root().Assoc(name, b)}
}

// Merge returns t updated with every binding of o. On a name collision the
// binding from o wins.
func (t SymbolTable) Merge(o SymbolTable) SymbolTable {
	m := t.root()
	for it := o.root().Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		m = m.Assoc(k, v)
	}
	return SymbolTable{m: m}
}

// Prune drops every binding whose symbol is not free in expr. A nil expr
// prunes everything.
func (t SymbolTable) Prune(expr symbolic.Expr) SymbolTable {
	var free map[string]struct{}
	if expr != nil {
		free = symbolic.FreeSymbols(expr)
	}
	m := t.root()
	for _, name := range t.Names() {
		if _, ok := free[name]; !ok {
			m = m.Dissoc(name)
		}
	}
	return SymbolTable{m: m}
}

// Names returns the bound names in sorted order.
func (t SymbolTable) Names() []string {
	names := make([]string, 0, t.Len())
	for it := t.root().Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		names = append(names, k.(string))
	}
	sort.Strings(names)
	return names
}

// Map returns a snapshot copy of the table.
func (t SymbolTable) Map() map[string]Binding {
	out := make(map[string]Binding, t.Len())
	for it := t.root().Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		out[k.(string)] = v.(Binding)
	}
	return out
}

// Equal reports whether both tables bind the same names to equal bindings.
func (t SymbolTable) Equal(o SymbolTable) bool {
	if t.Len() != o.Len() {
		return false
	}
	for it := t.root().Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		ob, ok := o.Lookup(k.(string))
		if !ok || !v.(Binding).Equal(ob) {
			return false
		}
	}
	return true
}

// values maps each bound name to its nominal value as an expression, for
// substitution.
func (t SymbolTable) values() (map[string]symbolic.Expr, error) {
	out := make(map[string]symbolic.Expr, t.Len())
	for _, name := range t.Names() {
		b, _ := t.Lookup(name)
		e, err := numberExpr(b.Value.Nominal)
		if err != nil {
			return nil, err
		}
		out[name] = e
	}
	return out, nil
}
