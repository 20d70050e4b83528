package quantity_test

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quantity "github.com/njchilds90/goquantity"
)

func TestString(t *testing.T) {
	l1, l2 := lengths(t)
	vol := must(must(l1.Mul(l2)).Mul(l2))

	cases := map[string]quantity.Quantity{
		"7 meter":                    must(quantity.New(7, "meter")),
		"(7 +/- 0.1) meter":          must(quantity.New(7, "meter", quantity.WithUncertainty(0.1))),
		"x = 3 meter":                must(quantity.New(3, "meter", quantity.WithLabel("x"))),
		"2 dimensionless":            must(quantity.New(2, "")),
		"l1*l2**2 meter ** 3":        vol,
		"9.81 meter / second ** 2":   must(quantity.New(9.81, "m/s**2")),
		"l1/l2 dimensionless":        must(l1.Div(l2)),
		"-0.5 1 / second":            must(quantity.New(-0.5, "1/s")),
	}
	for want, q := range cases {
		assert.Equal(t, want, q.String())
		assert.Equal(t, want, q.HTML())
	}
}

func TestLaTeX(t *testing.T) {
	l1, l2 := lengths(t)
	vol := must(must(l1.Mul(l2)).Mul(l2))

	cases := []struct {
		q    quantity.Quantity
		opts quantity.LaTeXOptions
		want string
	}{
		{must(quantity.New(3, "meter")), quantity.LaTeXOptions{}, `3\ \mathrm{m}`},
		{must(quantity.New(3, "meter")), quantity.LaTeXOptions{SpellUnits: true}, `3\ \mathrm{meter}`},
		{must(quantity.New(2, "")), quantity.LaTeXOptions{}, `2`},
		{must(quantity.New(7, "meter", quantity.WithUncertainty(0.1))), quantity.LaTeXOptions{}, `\left(7 \pm 0.1\right)\ \mathrm{m}`},
		{must(quantity.New(3, "meter", quantity.WithLabel("x"))), quantity.LaTeXOptions{}, `x = 3\ \mathrm{m}`},
		{vol, quantity.LaTeXOptions{}, `l_{1} l_{2}^{2}\ \mathrm{m}^{3}`},
		{vol, quantity.LaTeXOptions{Substitute: true}, `18\ \mathrm{m}^{3}`},
		{must(quantity.New(9.81, "m/s**2")), quantity.LaTeXOptions{}, `9.81\ \frac{\mathrm{m}}{\mathrm{s}^{2}}`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.q.LaTeX(tc.opts))
	}
	assert.Equal(t, `$3\ \mathrm{m}$`, must(quantity.New(3, "meter")).ToLaTeX(quantity.LaTeXOptions{}))
}

func TestJSON_Concrete(t *testing.T) {
	q := must(quantity.New(7, "kilometer", quantity.WithUncertainty(0.1), quantity.WithLabel("road")))
	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"magnitude":7,"unit":"kilometer","uncertainty":0.1,"label":"road"}`, string(data))

	var got quantity.Quantity
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, got.Equal(q))
	assert.Equal(t, "road", got.Label())
}

func TestJSON_Symbolic(t *testing.T) {
	l1, l2 := lengths(t)
	vol := must(must(l1.Mul(l2)).Mul(l2))
	data, err := json.Marshal(vol)
	require.NoError(t, err)

	var got quantity.Quantity
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, got.IsSymbolic())
	assert.True(t, got.Equal(vol))
	assert.Equal(t, 18.0, got.Magnitude())
	assert.Equal(t, []string{"l1", "l2"}, got.Symbols().Names())
}

func TestJSON_Errors(t *testing.T) {
	var q quantity.Quantity
	err := json.Unmarshal([]byte(`{"magnitude":1,"unit":"furlong"}`), &q)
	assert.True(t, errors.Is(err, quantity.ErrInvalidUnit))

	err = json.Unmarshal([]byte(`{"unit":"","expr":{"type":"func","name":"nope","arg":{"type":"sym","name":"x"}}}`), &q)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"unit":"","expr":{"type":"sym","name":"x"},"symbols":{"x":{"unit":"furlong","value":{"nominal":1,"stddev":0}}}}`), &q)
	assert.True(t, errors.Is(err, quantity.ErrInvalidUnit))
}
