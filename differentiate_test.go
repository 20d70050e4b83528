package quantity_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quantity "github.com/njchilds90/goquantity"
)

func diff(t *testing.T, q, target any, order int) quantity.Quantity {
	t.Helper()
	d, err := quantity.Differentiate(q, target, order)
	require.NoError(t, err)
	return d
}

func TestDifferentiate_VolumeChain(t *testing.T) {
	l1, l2 := lengths(t)
	vol := must(must(l1.Mul(l2)).Mul(l2))

	cases := []struct {
		target  quantity.Quantity
		expr    string
		mag     float64
		unit    string
		symbols []string
	}{
		{l1, "l2**2", 9, "meter ** 2", []string{"l2"}},
		{l2, "2*l2", 6, "meter", []string{"l2"}},
		{l2, "2", 2, "dimensionless", []string{}},
	}
	cur := vol
	for _, tc := range cases {
		cur = diff(t, cur, tc.target, 1)
		assert.Equal(t, tc.expr, cur.Expr().String())
		assert.Equal(t, tc.mag, cur.Magnitude())
		assert.Equal(t, tc.unit, cur.Unit().String())
		assert.Equal(t, tc.symbols, cur.Symbols().Names())
	}

	// the original is untouched
	assert.Equal(t, "l1*l2**2", vol.Expr().String())
	assert.Equal(t, 2, vol.Symbols().Len())
}

func TestDifferentiate_Cube(t *testing.T) {
	l1 := must(quantity.New(3, "meter", quantity.WithSymbol("l1")))
	cube := must(must(l1.Mul(l1)).Mul(l1))
	assert.Equal(t, "l1**3", cube.Expr().String())

	d1 := diff(t, cube, l1, 1)
	assert.Equal(t, "3*l1**2", d1.Expr().String())
	assert.Equal(t, 27.0, d1.Magnitude())
	assert.Equal(t, "meter ** 2", d1.Unit().String())

	d2 := diff(t, cube, l1, 2)
	assert.Equal(t, "6*l1", d2.Expr().String())
	assert.Equal(t, 18.0, d2.Magnitude())
	assert.Equal(t, "meter", d2.Unit().String())

	d0 := diff(t, cube, l1, 0)
	assert.True(t, d0.Equal(cube))
}

func TestDifferentiate_Force(t *testing.T) {
	m := must(quantity.New(2, "kilogram", quantity.WithSymbol("m")))
	a := must(quantity.New(3, "meter / second ** 2", quantity.WithSymbol("a")))
	f := must(m.Mul(a))

	dm := diff(t, f, m, 1)
	assert.True(t, dm.Expr().Equal(a.Expr()))
	assert.Equal(t, "meter / second ** 2", dm.Unit().String())
	assert.Equal(t, []string{"a"}, dm.Symbols().Names())

	da := diff(t, f, &a, 1)
	assert.True(t, da.Expr().Equal(m.Expr()))
	assert.Equal(t, "kilogram", da.Unit().String())
	assert.Equal(t, 2.0, da.Magnitude())
}

func TestDifferentiate_SelfIsOne(t *testing.T) {
	l1, _ := lengths(t)
	d := diff(t, l1, l1, 1)
	assert.Equal(t, "1", d.Expr().String())
	assert.Equal(t, 1.0, d.Magnitude())
	assert.Equal(t, "dimensionless", d.Unit().String())
	assert.Equal(t, 0, d.Symbols().Len())
}

func TestDifferentiate_ByName(t *testing.T) {
	l1, l2 := lengths(t)
	vol := must(must(l1.Mul(l2)).Mul(l2))
	d := diff(t, vol, "l2", 1)
	assert.Equal(t, "2*l1*l2", d.Expr().String())
	assert.Equal(t, 12.0, d.Magnitude())
	assert.Equal(t, "meter ** 2", d.Unit().String())
}

func TestDifferentiate_DimensionlessUnknownNameIsZero(t *testing.T) {
	x := must(quantity.New(3, "", quantity.WithSymbol("x")))
	d := diff(t, x, "l2", 1)
	assert.True(t, d.IsSymbolic())
	assert.Equal(t, "0", d.Expr().String())
	assert.Equal(t, 0.0, d.Magnitude())
	assert.True(t, d.Unit().IsDimensionless())
	assert.Equal(t, 0, d.Symbols().Len())
}

func TestDifferentiate_KeepsLabel(t *testing.T) {
	s := must(quantity.New(2, "meter", quantity.WithSymbol("s"), quantity.WithLabel("distance")))
	sq := must(s.Pow(2))
	d := diff(t, s, s, 1)
	assert.Equal(t, "distance", d.Label())
	assert.Equal(t, "", diff(t, sq, s, 1).Label())
}

func TestDifferentiate_Errors(t *testing.T) {
	l1, l2 := lengths(t)
	vol := must(must(l1.Mul(l2)).Mul(l2))
	sum := must(l1.Add(l2))
	diffExpr := must(l1.Sub(l2))

	cases := []struct {
		name   string
		q      any
		target any
		order  int
		want   []error
	}{
		{"unknown name", vol, "zz", 1, []error{quantity.ErrUnknownSymbol, quantity.ErrValue}},
		{"sum", sum, l1, 1, []error{quantity.ErrUnsupportedExpression, quantity.ErrValue}},
		{"difference", diffExpr, l1, 1, []error{quantity.ErrUnsupportedExpression}},
		{"float target", vol, 3.0, 1, []error{quantity.ErrUnsupportedType, quantity.ErrType}},
		{"concrete", must(quantity.New(3, "meter")), l1, 1, []error{quantity.ErrNotSymbolic, quantity.ErrValue}},
		{"non-quantity", "vol", l1, 1, []error{quantity.ErrType}},
		{"compound target", vol, vol, 1, []error{quantity.ErrUnsupportedExpression}},
		{"negative order", vol, l1, -1, []error{quantity.ErrValue}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := quantity.Differentiate(tc.q, tc.target, tc.order)
			require.Error(t, err)
			for _, want := range tc.want {
				assert.True(t, errors.Is(err, want), "%v is not %v", err, want)
			}
		})
	}
}

func TestRequireSymbolic(t *testing.T) {
	l1, _ := lengths(t)
	q, err := quantity.RequireSymbolic(&l1)
	require.NoError(t, err)
	assert.True(t, q.Equal(l1))

	_, err = quantity.RequireSymbolic(2.0)
	assert.True(t, errors.Is(err, quantity.ErrType))
	_, err = quantity.RequireSymbolic(must(quantity.New(1, "")))
	assert.True(t, errors.Is(err, quantity.ErrNotSymbolic))
}
