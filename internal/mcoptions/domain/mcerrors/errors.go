// Package mcerrors defines the closed error taxonomy of the pricing kernel.
package mcerrors

import "fmt"

// Kind enumerates the four kernel error classes. The set is closed: the kernel
// never returns an error outside this taxonomy.
type Kind uint8

const (
	// InvalidParameter marks inputs that violate a domain constraint detected
	// at call entry (non-positive spot/strike/time, negative volatility, an
	// empty exercise-date list, an out-of-range barrier code).
	InvalidParameter Kind = iota
	// InconsistentModel marks derived quantities outside their admissible
	// range (most commonly the CRR risk-neutral probability falling outside
	// [0,1]).
	InconsistentModel
	// NumericError marks a NaN/Inf accumulator or a regression failure beyond
	// the documented silent degeneracy fallback.
	NumericError
	// NotImplemented marks a reserved but unfinished model/engine
	// combination; the HTTP interface renders it as 501 Not Implemented.
	NotImplemented
)

func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "InvalidParameter"
	case InconsistentModel:
		return "InconsistentModel"
	case NumericError:
		return "NumericError"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error is the kernel's single error type. Callers distinguish taxonomy
// members with errors.As and the Kind field, never by string matching.
type Error struct {
	Kind    Kind
	Param   string
	Message string
}

func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New constructs an Error of the given kind.
func New(kind Kind, param, message string) *Error {
	return &Error{Kind: kind, Param: param, Message: message}
}

// Invalid is a shorthand constructor for the InvalidParameter kind.
func Invalid(param, message string) *Error {
	return New(InvalidParameter, param, message)
}

// Inconsistent is a shorthand constructor for the InconsistentModel kind.
func Inconsistent(param, message string) *Error {
	return New(InconsistentModel, param, message)
}

// Numeric is a shorthand constructor for the NumericError kind.
func Numeric(message string) *Error {
	return New(NumericError, "", message)
}

// NotImplementedErr is a shorthand constructor for the NotImplemented kind.
func NotImplementedErr(message string) *Error {
	return New(NotImplemented, "", message)
}
