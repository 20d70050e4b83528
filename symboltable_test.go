package quantity_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quantity "github.com/njchilds90/goquantity"
	"github.com/njchilds90/goquantity/measurement"
	"github.com/njchilds90/goquantity/symbolic"
	"github.com/njchilds90/goquantity/units"
)

func binding(unit string, v float64) quantity.Binding {
	return quantity.Binding{Unit: units.Default().MustParse(unit), Value: measurement.Exact(v)}
}

func TestSymbolTable_ZeroValue(t *testing.T) {
	var tbl quantity.SymbolTable
	assert.Equal(t, 0, tbl.Len())
	_, ok := tbl.Lookup("x")
	assert.False(t, ok)
	assert.Empty(t, tbl.Names())
	assert.True(t, tbl.Equal(quantity.SymbolTable{}))
}

func TestSymbolTable_WithIsPersistent(t *testing.T) {
	var base quantity.SymbolTable
	a := base.With("a", binding("meter", 1))
	b := a.With("b", binding("second", 2))

	assert.Equal(t, 0, base.Len())
	assert.Equal(t, []string{"a"}, a.Names())
	assert.Equal(t, []string{"a", "b"}, b.Names())
}

func TestSymbolTable_MergeRightWins(t *testing.T) {
	var empty quantity.SymbolTable
	left := empty.With("x", binding("meter", 1)).With("y", binding("meter", 2))
	right := empty.With("y", binding("meter", 5)).With("z", binding("meter", 3))

	merged := left.Merge(right)
	assert.Equal(t, []string{"x", "y", "z"}, merged.Names())
	y, ok := merged.Lookup("y")
	require.True(t, ok)
	assert.Equal(t, 5.0, y.Value.Nominal)

	// inputs untouched
	y, _ = left.Lookup("y")
	assert.Equal(t, 2.0, y.Value.Nominal)
	assert.Equal(t, 2, right.Len())
}

func TestSymbolTable_Prune(t *testing.T) {
	var empty quantity.SymbolTable
	tbl := empty.With("x", binding("meter", 1)).With("y", binding("meter", 2))

	pruned := tbl.Prune(symbolic.MulOf(symbolic.S("x"), symbolic.N(3)))
	assert.Equal(t, []string{"x"}, pruned.Names())
	assert.Equal(t, 0, tbl.Prune(nil).Len())
	assert.Equal(t, 2, tbl.Len())
}

func TestSymbolTable_MapSnapshot(t *testing.T) {
	var empty quantity.SymbolTable
	tbl := empty.With("x", binding("meter", 1))
	m := tbl.Map()
	delete(m, "x")
	assert.Equal(t, 1, tbl.Len())

	want := map[string]float64{"x": 1}
	got := map[string]float64{}
	for name, b := range tbl.Map() {
		got[name] = b.Value.Nominal
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSymbolTable_Equal(t *testing.T) {
	var empty quantity.SymbolTable
	a := empty.With("x", binding("meter", 1))
	b := empty.With("x", binding("m", 1))
	c := empty.With("x", binding("meter", 2))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(empty))
}
