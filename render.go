package quantity

import (
	"strconv"
	"strings"
)

// LaTeXOptions controls LaTeX output.
type LaTeXOptions struct {
	// Substitute renders the evaluated magnitude instead of the expression.
	Substitute bool
	// SpellUnits writes unit names (\mathrm{meter}) instead of symbols (\mathrm{m}).
	SpellUnits bool
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// String renders "<magnitude> <unit>", e.g. "7 meter", "(7 +/- 0.1) meter"
// or "l1*l2**2 meter ** 3", prefixed with "label = " when labelled.
func (q Quantity) String() string {
	var sb strings.Builder
	if q.label != "" {
		sb.WriteString(q.label)
		sb.WriteString(" = ")
	}
	if q.expr != nil {
		sb.WriteString(q.expr.String())
	} else {
		sb.WriteString(q.value.String())
	}
	sb.WriteString(" ")
	sb.WriteString(q.unit.String())
	return sb.String()
}

// HTML renders the plain-text form.
func (q Quantity) HTML() string { return q.String() }

// LaTeX renders a math-mode fragment such as "l_{1} l_{2}^{2}\ \mathrm{m}^{3}".
// A dimensionless quantity renders without a unit.
func (q Quantity) LaTeX(opts LaTeXOptions) string {
	var mag string
	switch {
	case q.expr != nil && !opts.Substitute:
		mag = q.expr.LaTeX()
	default:
		v := q.Value()
		mag = formatFloat(v.Nominal)
		if v.StdDev != 0 {
			mag = `\left(` + mag + ` \pm ` + formatFloat(v.StdDev) + `\right)`
		}
	}
	text := mag
	if u := q.unit.LaTeX(!opts.SpellUnits); u != "" {
		text += `\ ` + u
	}
	if q.label != "" {
		text = q.label + " = " + text
	}
	return text
}

// ToLaTeX wraps LaTeX output in $...$ for inline math.
func (q Quantity) ToLaTeX(opts LaTeXOptions) string { return "$" + q.LaTeX(opts) + "$" }
