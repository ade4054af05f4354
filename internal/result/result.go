// Package result provides the uniform outcome type returned by every
// use-case operation. A Result is exactly one of a success value or an
// Error; there is no third state and no way to build both.
package result

import "fmt"

// Code classifies an operation failure. The set is closed.
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeBusinessRule Code = "BUSINESS_RULE_VIOLATION"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeConflict     Code = "CONFLICT"
)

// Error describes why an operation failed. Build one with the factory
// functions; the fields are read-only by convention.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFound builds a NOT_FOUND error for the named entity and id.
func NotFound(entity, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with id %s not found", entity, id),
		Details: map[string]any{"entity": entity, "id": id},
	}
}

// Validation builds a VALIDATION_ERROR.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// BusinessRule builds a BUSINESS_RULE_VIOLATION.
func BusinessRule(msg string) *Error {
	return &Error{Code: CodeBusinessRule, Message: msg}
}

// Unauthorized builds an UNAUTHORIZED error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Conflict builds a CONFLICT error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Result holds either a success value or an Error. The zero value is
// neither and panics on every accessor; always construct through Success
// or Failure.
type Result[T any] struct {
	value T
	err   *Error
	ok    bool
}

// Success wraps a value in a successful Result.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Failure wraps an Error in a failed Result. A nil error is a programmer
// error and panics.
func Failure[T any](err *Error) Result[T] {
	if err == nil {
		panic("result: Failure called with nil error")
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether the result carries a value.
func (r Result[T]) IsSuccess() bool { return r.ok }

// Value returns the success value. Calling it on a failure or on the zero
// value panics.
func (r Result[T]) Value() T {
	if !r.ok {
		if r.err != nil {
			panic(fmt.Sprintf("result: Value called on failure (%s)", r.err))
		}
		panic("result: Value called on zero-value Result")
	}
	return r.value
}

// Err returns the failure Error. Calling it on a success or on the zero
// value panics.
func (r Result[T]) Err() *Error {
	if r.ok {
		panic("result: Err called on success")
	}
	if r.err == nil {
		panic("result: Err called on zero-value Result")
	}
	return r.err
}
