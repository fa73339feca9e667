// Package rendererr provides structured error handling for sqlrender.
//
// This package defines a single error type carrying a code, a message,
// an optional character offset into the offending input, context fields
// for debugging, and support for wrapping an underlying cause.
//
// Error codes follow a hierarchical scheme:
//   - 1xxx: template syntax errors
//   - 2xxx: expression errors
//   - 3xxx: dialect errors
//   - 4xxx: rule load errors
//   - 5xxx: identifier length errors
//   - 9xxx: internal errors
package rendererr

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a numeric error code for programmatic handling.
type Code int

const (
	// Template syntax errors (1xxx)
	ErrCodeUnterminatedConditional Code = 1001
	ErrCodeUnbalancedBrace         Code = 1002
	ErrCodeMalformedDefault        Code = 1003

	// Expression errors (2xxx)
	ErrCodeExprMalformed  Code = 2001
	ErrCodeExprBadLiteral Code = 2002
	ErrCodeExprBadOp      Code = 2003

	// Dialect errors (3xxx)
	ErrCodeUnknownDialect Code = 3001

	// Rule load errors (4xxx)
	ErrCodeRuleParse       Code = 4001
	ErrCodeRuleBadHeader   Code = 4002
	ErrCodeRuleBadDialect  Code = 4003
	ErrCodeRulePatternBad  Code = 4004

	// Identifier length errors (5xxx)
	ErrCodeIdentifierTooLong Code = 5001

	// Internal errors (9xxx)
	ErrCodeInternal Code = 9001
)

// String returns the error code as a fixed-width string, e.g. "E1001".
func (c Code) String() string {
	return fmt.Sprintf("E%04d", c)
}

// Kind names the spec-level error kind a code belongs to.
func (c Code) Kind() string {
	switch {
	case c >= 1000 && c < 2000:
		return "TemplateSyntaxError"
	case c >= 2000 && c < 3000:
		return "ExpressionError"
	case c >= 3000 && c < 4000:
		return "DialectError"
	case c >= 4000 && c < 5000:
		return "RuleLoadError"
	case c >= 5000 && c < 6000:
		return "IdentifierTooLongError"
	default:
		return "InternalError"
	}
}

// Error is a structured error with a code, an optional offset, and context.
type Error struct {
	Code    Code
	Message string
	Offset  int // character offset into the input; -1 if not meaningful
	Fields  map[string]interface{}
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Code.Kind())
	buf.WriteString(": ")
	buf.WriteString(e.Message)
	if e.Offset >= 0 {
		fmt.Fprintf(&buf, " (at offset %d)", e.Offset)
	}
	if e.Cause != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Cause.Error())
	}
	return buf.String()
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithField adds a context field to the error and returns it for chaining.
func (e *Error) WithField(key string, value interface{}) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithCause sets the wrapped cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// New creates an Error with no offset.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Offset: -1}
}

// Newf creates an Error with a formatted message and no offset.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Offset: -1}
}

// At creates an Error with a character offset into the input.
func At(code Code, offset int, message string) *Error {
	return &Error{Code: code, Message: message, Offset: offset}
}

// Atf creates an Error with an offset and a formatted message.
func Atf(code Code, offset int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Offset: offset}
}

// GetCode extracts the error code from an error, or ErrCodeInternal.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// IsKind checks whether err carries a code belonging to the named kind
// ("TemplateSyntaxError", "ExpressionError", "DialectError", "RuleLoadError",
// "IdentifierTooLongError").
func IsKind(err error, kind string) bool {
	return GetCode(err).Kind() == kind
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
