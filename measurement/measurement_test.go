package measurement_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/njchilds90/goquantity/measurement"
)

func TestAddSub(t *testing.T) {
	a := measurement.New(10, 3)
	b := measurement.New(5, 4)
	sum := a.Add(b)
	assert.Equal(t, 15.0, sum.Nominal)
	assert.InDelta(t, 5.0, sum.StdDev, 1e-12)
	diff := a.Sub(b)
	assert.Equal(t, 5.0, diff.Nominal)
	assert.InDelta(t, 5.0, diff.StdDev, 1e-12)
}

func TestMulDiv(t *testing.T) {
	a := measurement.New(2, 0.1)
	b := measurement.New(4, 0.2)
	prod := a.Mul(b)
	assert.Equal(t, 8.0, prod.Nominal)
	assert.InDelta(t, math.Hypot(0.4, 0.4), prod.StdDev, 1e-12)

	quo := b.Div(a)
	assert.Equal(t, 2.0, quo.Nominal)
	// relative errors add in quadrature
	assert.InDelta(t, 2*math.Hypot(0.05, 0.05), quo.StdDev, 1e-12)
}

func TestPow(t *testing.T) {
	v := measurement.New(3, 0.1)
	sq := v.Pow(2)
	assert.Equal(t, 9.0, sq.Nominal)
	assert.InDelta(t, 0.6, sq.StdDev, 1e-12)

	exact := measurement.Exact(2).Pow(5)
	assert.Equal(t, 32.0, exact.Nominal)
	assert.True(t, exact.IsExact())
}

func TestPowValue(t *testing.T) {
	base := measurement.New(2, 0)
	p := measurement.New(3, 0.1)
	r := base.PowValue(p)
	assert.Equal(t, 8.0, r.Nominal)
	assert.InDelta(t, 8*math.Log(2)*0.1, r.StdDev, 1e-12)
}

func TestScaleNeg(t *testing.T) {
	v := measurement.New(2, 0.5).Scale(-4)
	assert.Equal(t, -8.0, v.Nominal)
	assert.Equal(t, 2.0, v.StdDev)
	assert.Equal(t, 8.0, v.Neg().Nominal)
}

func TestString(t *testing.T) {
	assert.Equal(t, "7", measurement.Exact(7).String())
	assert.Equal(t, "(7 +/- 0.1)", measurement.New(7, -0.1).String())
}

func TestRelErr(t *testing.T) {
	assert.Equal(t, 0.0, measurement.Exact(0).RelErr())
	assert.InDelta(t, 0.05, measurement.New(-2, 0.1).RelErr(), 1e-12)
}
