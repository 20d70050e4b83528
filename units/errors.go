package units

import "github.com/pkg/errors"

var (
	// ErrUndefinedUnit is returned when a unit name cannot be resolved.
	ErrUndefinedUnit = errors.New("undefined unit")
	// ErrSyntax is returned for malformed unit expressions.
	ErrSyntax = errors.New("invalid unit expression")
	// ErrIncompatible is returned when converting between different dimensions.
	ErrIncompatible = errors.New("incompatible units")
)
