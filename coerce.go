package quantity

import (
	"github.com/pkg/errors"

	"github.com/njchilds90/goquantity/measurement"
	"github.com/njchilds90/goquantity/units"
)

// Coerce normalizes an operand into a Quantity. Quantities pass through
// unchanged; Go numbers and measurement values become dimensionless
// quantities. Anything else is an ErrType.
func Coerce(v any) (Quantity, error) {
	var f float64
	switch x := v.(type) {
	case Quantity:
		return x, nil
	case *Quantity:
		if x == nil {
			return Quantity{}, errors.Wrap(ErrUnsupportedType, "nil *Quantity")
		}
		return *x, nil
	case measurement.Value:
		return Quantity{value: x, unit: units.Dimensionless}, nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return Quantity{}, errors.Wrapf(ErrUnsupportedType, "%T", v)
	}
	return Quantity{value: measurement.Exact(f), unit: units.Dimensionless}, nil
}
