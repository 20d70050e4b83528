package units_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goquantity/units"
)

func parse(t *testing.T, r *units.Registry, s string) units.Unit {
	t.Helper()
	u, err := r.Parse(s)
	require.NoError(t, err, s)
	return u
}

func TestParse_CanonicalString(t *testing.T) {
	r := units.NewRegistry()
	cases := map[string]string{
		"kg*m/s**2":        "kilogram * meter / second ** 2",
		"meter * meter":    "meter ** 2",
		"1/s":              "1 / second",
		"s**-1":            "1 / second",
		"s^-1":             "1 / second",
		"hertz":            "hertz",
		"":                 "dimensionless",
		"dimensionless":    "dimensionless",
		"m/s/s":            "meter / second ** 2",
		"kg/m/s**2":        "kilogram / meter / second ** 2",
		"m**(1/2)":         "meter ** 0.5",
		"(m*s)**2":         "meter ** 2 * second ** 2",
		"m / m":            "dimensionless",
		"ms":               "millisecond",
		"kilometers":       "kilometer",
		"µm":               "micrometer",
		"inches":           "inch",
		"hPa":              "hectopascal",
		"feet":             "foot",
		"electron_volt":    "electron_volt",
		"meters / seconds": "meter / second",
	}
	for in, want := range cases {
		got := parse(t, r, in).String()
		assert.Equal(t, want, got, "parse %q", in)
	}
}

func TestParse_Errors(t *testing.T) {
	r := units.NewRegistry()
	cases := []struct {
		in   string
		want error
	}{
		{"furlong", units.ErrUndefinedUnit},
		{"kilogram meter", units.ErrSyntax},
		{"m**", units.ErrSyntax},
		{"2*m", units.ErrSyntax},
		{"(m", units.ErrSyntax},
		{"m**(1/0)", units.ErrSyntax},
		{"m % s", units.ErrSyntax},
	}
	for _, tc := range cases {
		_, err := r.Parse(tc.in)
		if !errors.Is(err, tc.want) {
			t.Errorf("parse %q: want %v, got %v", tc.in, tc.want, err)
		}
	}
}

func TestUnit_Algebra(t *testing.T) {
	r := units.NewRegistry()
	m := parse(t, r, "meter")
	s := parse(t, r, "second")

	assert.Equal(t, "meter ** 2", m.Mul(m).String())
	assert.Equal(t, "meter / second", m.Div(s).String())
	assert.Equal(t, "meter ** 5", m.Pow(5).String())
	assert.Equal(t, "dimensionless", m.Pow(0).String())
	assert.True(t, m.Div(m).Equal(units.Dimensionless))
	assert.True(t, m.Mul(s).Equal(s.Mul(m)))
}

func TestUnit_Compatibility(t *testing.T) {
	r := units.NewRegistry()
	newton := parse(t, r, "newton")
	base := parse(t, r, "kg*m/s^2")
	assert.True(t, newton.IsCompatible(base))
	assert.False(t, newton.Equal(base))
	assert.False(t, newton.IsCompatible(parse(t, r, "joule")))

	assert.True(t, parse(t, r, "radian").IsDimensionless())
	assert.Equal(t, "radian", parse(t, r, "radian").String())
	assert.True(t, parse(t, r, "meter/centimeter").IsDimensionless())
	assert.InDelta(t, 100.0, parse(t, r, "meter/centimeter").Factor(), 1e-12)
}

func TestUnit_ConversionFactor(t *testing.T) {
	r := units.NewRegistry()
	k, err := parse(t, r, "km").ConversionFactor(parse(t, r, "m"))
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, k, 1e-9)

	k, err = parse(t, r, "hour").ConversionFactor(parse(t, r, "minute"))
	require.NoError(t, err)
	assert.InDelta(t, 60.0, k, 1e-9)

	k, err = parse(t, r, "degree").ConversionFactor(parse(t, r, "dimensionless"))
	require.NoError(t, err)
	assert.InDelta(t, 0.017453292519943295, k, 1e-15)

	_, err = parse(t, r, "meter").ConversionFactor(parse(t, r, "second"))
	assert.True(t, errors.Is(err, units.ErrIncompatible))
}

func TestDimension_String(t *testing.T) {
	r := units.NewRegistry()
	assert.Equal(t, "[length] * [mass] / [time] ** 2", parse(t, r, "newton").Dimensionality().String())
	assert.Equal(t, "dimensionless", parse(t, r, "radian").Dimensionality().String())
	want := units.Dimension{"length": 2, "mass": 1, "time": -2}
	if diff := cmp.Diff(want, parse(t, r, "joule").Dimensionality()); diff != "" {
		t.Errorf("joule dimensionality mismatch (-want +got):\n%s", diff)
	}
}

func TestUnit_LaTeX(t *testing.T) {
	r := units.NewRegistry()
	u := parse(t, r, "kg*m/s**2")
	assert.Equal(t, `\frac{\mathrm{kg} \cdot \mathrm{m}}{\mathrm{s}^{2}}`, u.LaTeX(true))
	assert.Equal(t, `\frac{\mathrm{kilogram} \cdot \mathrm{meter}}{\mathrm{second}^{2}}`, u.LaTeX(false))
	assert.Equal(t, `\frac{1}{\mathrm{s}}`, parse(t, r, "1/s").LaTeX(true))
	assert.Equal(t, `\mathrm{electron\_volt}`, parse(t, r, "eV").LaTeX(false))
	assert.Equal(t, "", units.Dimensionless.LaTeX(true))
	assert.Equal(t, "kg * m / s ** 2", u.Abbreviated())
}

func TestRegistry_LoadYAML(t *testing.T) {
	r := units.NewRegistry()
	doc := []byte(`
unit:
  - name: furlong
    symbol: fur
    factor: 201.168
    reference: meter
`)
	require.NoError(t, r.Load(doc, units.FormatYAML))
	k, err := parse(t, r, "furlongs").ConversionFactor(parse(t, r, "meter"))
	require.NoError(t, err)
	assert.InDelta(t, 201.168, k, 1e-9)
	assert.Equal(t, "kilofurlong", parse(t, r, "kfur").String())
}

func TestRegistry_LoadFile(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "extra.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
[[unit]]
name = "parsec"
symbol = "pc"
factor = 3.0856775814913673e16
reference = "meter"
`), 0o600))
	yamlPath := filepath.Join(dir, "extra.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("unit:\n  - name: knot\n    symbol: kn\n    factor: 0.514444\n    reference: meter / second\n"), 0o600))

	r := units.NewRegistry()
	require.NoError(t, r.LoadFile(tomlPath))
	require.NoError(t, r.LoadFile(yamlPath))
	assert.Equal(t, "megaparsec", parse(t, r, "Mpc").String())
	assert.True(t, parse(t, r, "knot").IsCompatible(parse(t, r, "m/s")))

	bad := filepath.Join(dir, "extra.json")
	require.NoError(t, os.WriteFile(bad, []byte("{}"), 0o600))
	assert.Error(t, r.LoadFile(bad))
	assert.Error(t, r.LoadFile(filepath.Join(dir, "missing.toml")))
}

func TestRegistry_LoadRejectsBadReference(t *testing.T) {
	r := units.NewRegistry()
	err := r.Load([]byte("[[unit]]\nname = \"widget\"\nreference = \"gizmo\"\n"), units.FormatAuto)
	assert.True(t, errors.Is(err, units.ErrUndefinedUnit))
}

func TestRegistry_Names(t *testing.T) {
	names := units.NewRegistry().Names()
	assert.Contains(t, names, "meter")
	assert.Contains(t, names, "newton")
	assert.NotContains(t, names, "metre")
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, units.Default(), units.Default())
}

func TestRegistry_ConcurrentParse(t *testing.T) {
	r := units.NewRegistry()
	exprs := []string{"km/h", "N*m", "kg*m**2/s**2", "mA*s", "1/min"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, e := range exprs {
				if _, err := r.Parse(e); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
}
