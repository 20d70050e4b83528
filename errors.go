package quantity

import "github.com/pkg/errors"

// Error classes. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrType reports an argument of the wrong kind at an API boundary.
	ErrType = errors.New("type error")
	// ErrValue reports a violated precondition on an argument of the right kind.
	ErrValue = errors.New("value error")
)

var (
	ErrUnsupportedType       = classify(ErrType, "unsupported operand type")
	ErrNotSymbolic           = classify(ErrValue, "quantity is not symbolic")
	ErrIncompatibleUnits     = classify(ErrValue, "incompatible units")
	ErrNotDimensionless      = classify(ErrValue, "quantity is not dimensionless")
	ErrUnsupportedExpression = classify(ErrValue, "unsupported expression")
	ErrUnknownSymbol         = classify(ErrValue, "unknown symbol")
	ErrDivisionByZero        = classify(ErrValue, "division by zero")
	ErrUndefined             = classify(ErrValue, "undefined result")
	ErrInvalidUnit           = classify(ErrValue, "invalid unit")
)

// kindError is a sentinel that unwraps to its class.
type kindError struct {
	class error
	msg   string
}

func classify(class error, msg string) error { return &kindError{class: class, msg: msg} }

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.class }

// causedError attaches a sentinel to an error from a collaborator package, so
// the result matches both the sentinel and the original cause.
type causedError struct {
	sentinel error
	cause    error
}

func withCause(sentinel, cause error) error {
	return errors.WithStack(&causedError{sentinel: sentinel, cause: cause})
}

func (e *causedError) Error() string { return e.sentinel.Error() + ": " + e.cause.Error() }
func (e *causedError) Unwrap() error { return e.cause }
func (e *causedError) Is(target error) bool {
	return errors.Is(e.sentinel, target)
}
