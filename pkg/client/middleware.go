package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

// MiddlewareFunc is the middleware function signature.
type MiddlewareFunc func(ctx context.Context, params MiddlewareParams, next MiddlewareNext) MiddlewareResult

// MiddlewareNext is the function to call to continue the middleware chain.
type MiddlewareNext func(ctx context.Context) MiddlewareResult

// MiddlewareParams contains information about the current operation.
type MiddlewareParams struct {
	// Table is the root table of the query.
	Table string

	// Operation is the terminal operation (execute, count, exists, first).
	Operation string

	// Statement is the compiled statement.
	Statement domain.Statement

	// StartTime is when the operation started.
	StartTime time.Time
}

// MiddlewareResult contains the result of a middleware operation.
type MiddlewareResult struct {
	// Data is the result data.
	Data interface{}

	// Error is any error that occurred.
	Error error

	// Duration is how long the operation took.
	Duration time.Duration
}

// chain wraps final in middleware, first registered outermost.
func chain(middleware []MiddlewareFunc, params MiddlewareParams, final MiddlewareNext) MiddlewareNext {
	next := final
	for i := len(middleware) - 1; i >= 0; i-- {
		mw, inner := middleware[i], next
		next = func(ctx context.Context) MiddlewareResult {
			return mw(ctx, params, inner)
		}
	}
	return next
}

// LogMiddleware creates a middleware that logs operations.
func LogMiddleware(logger *slog.Logger) MiddlewareFunc {
	return func(ctx context.Context, params MiddlewareParams, next MiddlewareNext) MiddlewareResult {
		logger.DebugContext(ctx, "operation started",
			"table", params.Table,
			"operation", params.Operation,
			"sql", params.Statement.SQL,
		)

		result := next(ctx)

		if result.Error != nil {
			logger.ErrorContext(ctx, "operation failed",
				"table", params.Table,
				"operation", params.Operation,
				"duration", result.Duration,
				"error", result.Error,
			)
		} else {
			logger.InfoContext(ctx, "operation completed",
				"table", params.Table,
				"operation", params.Operation,
				"duration", result.Duration,
			)
		}
		return result
	}
}

// TimeoutMiddleware creates a middleware that enforces timeouts.
func TimeoutMiddleware(timeout time.Duration) MiddlewareFunc {
	return func(ctx context.Context, params MiddlewareParams, next MiddlewareNext) MiddlewareResult {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return next(ctx)
	}
}
