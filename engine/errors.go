package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for operator construction.
var (
	// ErrLogDomain is returned when Log is applied to a non-positive value.
	ErrLogDomain = errors.New("log of non-positive value")

	// ErrDivByZero is returned when Div is applied with a zero divisor.
	ErrDivByZero = errors.New("division by zero")
)

// DomainError reports an operand outside an operator's mathematical
// domain, detected when the offending node is constructed. It wraps
// one of the sentinel errors above, so callers can match with
// errors.Is. Op names the operator as the caller invoked it ("log",
// "div"), which for composites is not a graph tag.
type DomainError struct {
	Op      string
	Operand float64
	err     error
}

func newDomainError(op string, operand float64, err error) *DomainError {
	return &DomainError{Op: op, Operand: operand, err: err}
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("engine: %v (op %s, operand %g)", e.err, e.Op, e.Operand)
}

func (e *DomainError) Unwrap() error {
	return e.err
}
