package units

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// tolerance below which an exponent is treated as zero.
const tolerance = 1e-12

// Dimension maps base dimension names (length, mass, time, ...) to exponents.
// A nil or empty Dimension is dimensionless.
type Dimension map[string]float64

// IsZero reports whether d is dimensionless.
func (d Dimension) IsZero() bool {
	for _, e := range d {
		if math.Abs(e) > tolerance {
			return false
		}
	}
	return true
}

// Equal compares exponents, ignoring entries that are effectively zero.
func (d Dimension) Equal(o Dimension) bool {
	for k, e := range d {
		if math.Abs(e-o[k]) > tolerance {
			return false
		}
	}
	for k, e := range o {
		if _, ok := d[k]; !ok && math.Abs(e) > tolerance {
			return false
		}
	}
	return true
}

// scaled returns d + o*scale as a new map.
func (d Dimension) scaled(o Dimension, scale float64) Dimension {
	out := make(Dimension, len(d)+len(o))
	for k, e := range d {
		out[k] = e
	}
	for k, e := range o {
		v := out[k] + e*scale
		if math.Abs(v) <= tolerance {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func (d Dimension) String() string {
	var num, den []string
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e := d[k]
		switch {
		case math.Abs(e) <= tolerance:
		case e > 0:
			num = append(num, powerString("["+k+"]", e))
		default:
			den = append(den, powerString("["+k+"]", -e))
		}
	}
	return joinFraction(num, den)
}

func powerString(name string, e float64) string {
	if e == 1 {
		return name
	}
	return name + " ** " + formatExponent(e)
}

func formatExponent(e float64) string {
	if e == math.Trunc(e) && math.Abs(e) < 1e15 {
		return strconv.FormatInt(int64(e), 10)
	}
	return strconv.FormatFloat(e, 'g', -1, 64)
}

func joinFraction(num, den []string) string {
	switch {
	case len(num) == 0 && len(den) == 0:
		return "dimensionless"
	case len(den) == 0:
		return strings.Join(num, " * ")
	case len(num) == 0:
		return "1 / " + strings.Join(den, " / ")
	}
	return strings.Join(num, " * ") + " / " + strings.Join(den, " / ")
}
