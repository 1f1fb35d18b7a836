package tangent

import (
	"errors"
	"fmt"
)

var (
	ErrIndeterminate       = errors.New("tangent: slope is indeterminate (0/0)")
	ErrNoDependentVariable = errors.New("tangent: curve does not depend on y")
	ErrBudgetExceeded      = errors.New("tangent: computation budget exceeded")
	ErrInvalidMode         = errors.New(`tangent: output must be "exact" or "decimal"`)
)

// Kind classifies an Error by who is at fault.
type Kind int

const (
	// KindValidation: the request is malformed (missing fields, bad mode,
	// a point that is not numeric).
	KindValidation Kind = iota + 1
	// KindParse: an expression could not be parsed.
	KindParse
	// KindComputation: the inputs were fine but the math failed, including
	// running out of time.
	KindComputation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindParse:
		return "parse"
	case KindComputation:
		return "computation"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the error type returned by this package.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or zero.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}

func validationError(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

func parseError(op string, err error) error {
	return &Error{Kind: KindParse, Op: op, Err: err}
}
