package quantity

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/njchilds90/goquantity/measurement"
	"github.com/njchilds90/goquantity/symbolic"
	"github.com/njchilds90/goquantity/units"
)

type jsonBinding struct {
	Unit  string            `json:"unit"`
	Value measurement.Value `json:"value"`
}

type jsonQuantity struct {
	Magnitude   float64                `json:"magnitude,omitempty"`
	Unit        string                 `json:"unit"`
	Uncertainty float64                `json:"uncertainty,omitempty"`
	Label       string                 `json:"label,omitempty"`
	Expr        map[string]interface{} `json:"expr,omitempty"`
	Symbols     map[string]jsonBinding `json:"symbols,omitempty"`
}

// MarshalJSON encodes q with its unit, label, and either its magnitude and
// uncertainty or its expression and symbol table.
func (q Quantity) MarshalJSON() ([]byte, error) {
	out := jsonQuantity{Unit: q.unit.String(), Label: q.label}
	if q.expr == nil {
		out.Magnitude = q.value.Nominal
		out.Uncertainty = q.value.StdDev
	} else {
		out.Expr = symbolic.ToMap(q.expr)
		out.Symbols = map[string]jsonBinding{}
		for name, b := range q.table.Map() {
			out.Symbols[name] = jsonBinding{Unit: b.Unit.String(), Value: b.Value}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the output of MarshalJSON, resolving units against
// the default registry.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	var in jsonQuantity
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "decode quantity")
	}
	reg := units.Default()
	opts := []Option{WithLabel(in.Label), WithUncertainty(in.Uncertainty), WithRegistry(reg)}
	if in.Expr != nil {
		expr, err := symbolic.FromJSON(in.Expr)
		if err != nil {
			return errors.Wrap(err, "decode quantity expression")
		}
		var table SymbolTable
		for name, b := range in.Symbols {
			u, err := reg.Parse(b.Unit)
			if err != nil {
				return withCause(ErrInvalidUnit, err)
			}
			table = table.With(name, Binding{Unit: u, Value: b.Value})
		}
		opts = append(opts, WithExpr(expr), withSymbolTable(table))
	}
	decoded, err := New(in.Magnitude, in.Unit, opts...)
	if err != nil {
		return err
	}
	*q = decoded
	return nil
}
