package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below.
var (
	// ErrInvalidOrder is returned when an order is malformed.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrConflictingOrder is returned when one expression is ordered in two directions.
	ErrConflictingOrder = errors.New("conflicting order")

	// ErrUnsupportedExpression is returned when no renderer exists for an expression.
	ErrUnsupportedExpression = errors.New("unsupported expression")

	// ErrInvalidPagination is returned for negative limits or offsets.
	ErrInvalidPagination = errors.New("invalid pagination")

	// ErrConnection is matched by ConnectionError.
	ErrConnection = errors.New("database connection error")

	// ErrSyntax is matched by SyntaxError.
	ErrSyntax = errors.New("sql syntax error")

	// ErrSequenceConsumed is yielded when a row sequence is iterated twice.
	ErrSequenceConsumed = errors.New("row sequence already consumed")
)

// InvalidOrderError reports a malformed order.
type InvalidOrderError struct {
	Reason string
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("invalid order: %s", e.Reason)
}

// Is matches ErrInvalidOrder.
func (e *InvalidOrderError) Is(target error) bool {
	return target == ErrInvalidOrder
}

// ConflictingOrderError reports an expression ordered in both directions.
type ConflictingOrderError struct {
	Expression string
	First      Direction
	Second     Direction
}

func (e *ConflictingOrderError) Error() string {
	return fmt.Sprintf("conflicting order on %s: %s and %s", e.Expression, e.First, e.Second)
}

// Is matches ErrConflictingOrder.
func (e *ConflictingOrderError) Is(target error) bool {
	return target == ErrConflictingOrder
}

// UnsupportedExpressionError reports an expression the active dialect cannot render.
type UnsupportedExpressionError struct {
	Kind    ExpressionKind
	Dialect SQLDialect
}

func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("unsupported expression: no %s renderer for dialect %q", e.Kind, e.Dialect)
}

// Is matches ErrUnsupportedExpression.
func (e *UnsupportedExpressionError) Is(target error) bool {
	return target == ErrUnsupportedExpression
}

// ConnectionError is an I/O failure talking to the database. Callers may
// retry it with backoff.
type ConnectionError struct {
	Dialect SQLDialect
	Cause   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: connection error: %v", e.Dialect, e.Cause)
}

// Unwrap returns the driver error.
func (e *ConnectionError) Unwrap() error { return e.Cause }

// Is matches ErrConnection.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// SyntaxError means the database rejected generated SQL. It indicates a
// compiler defect and is never retried.
type SyntaxError struct {
	Dialect SQLDialect
	SQL     string
	Cause   error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error in %q: %v", e.Dialect, e.SQL, e.Cause)
}

// Unwrap returns the driver error.
func (e *SyntaxError) Unwrap() error { return e.Cause }

// Is matches ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// IsRetryable reports whether err may succeed when retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConnection) && !errors.Is(err, ErrSyntax)
}
