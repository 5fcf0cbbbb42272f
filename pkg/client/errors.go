package client

import (
	"errors"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

var (
	// ErrNotFound is returned by First when the query yields no row.
	ErrNotFound = errors.New("rootquery: record not found")

	// ErrRetryExhausted is returned when every retry attempt failed.
	ErrRetryExhausted = errors.New("rootquery: retry attempts exhausted")

	// ErrUnsupportedCount is returned by Count for grouped or distinct queries.
	ErrUnsupportedCount = errors.New("rootquery: count is not supported for grouped or distinct queries")

	// Errors shared with the query core.
	ErrInvalidOrder          = domain.ErrInvalidOrder
	ErrConflictingOrder      = domain.ErrConflictingOrder
	ErrUnsupportedExpression = domain.ErrUnsupportedExpression
	ErrInvalidPagination     = domain.ErrInvalidPagination
	ErrConnection            = domain.ErrConnection
	ErrSyntax                = domain.ErrSyntax
	ErrSequenceConsumed      = domain.ErrSequenceConsumed
)

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsSyntax checks if an error is a statement the database rejected.
func IsSyntax(err error) bool {
	return errors.Is(err, ErrSyntax)
}

// IsRetryable reports whether err may succeed on retry.
func IsRetryable(err error) bool {
	return domain.IsRetryable(err)
}
