// Package telemetry records statement executions and connection events.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Telemetry receives execution events.
type Telemetry interface {
	// RecordQuery records a statement execution.
	RecordQuery(ctx context.Context, info QueryInfo)

	// RecordError records a failed execution.
	RecordError(ctx context.Context, info ErrorInfo)

	// RecordConnection records a connection event.
	RecordConnection(ctx context.Context, info ConnectionInfo)

	// Flush flushes any buffered data.
	Flush(ctx context.Context) error

	// Close releases the adapter.
	Close(ctx context.Context) error
}

// QueryInfo describes one statement execution.
type QueryInfo struct {
	// ID identifies the execution across query and error events.
	ID uuid.UUID

	// Dialect is the SQL dialect the statement was compiled for.
	Dialect string

	// SQL is the statement text.
	SQL string

	// Params is the number of bound parameters.
	Params int

	// Duration is the time from submission to the last row.
	Duration time.Duration

	// Success indicates if the execution succeeded.
	Success bool

	// Rows is the number of rows yielded to the caller.
	Rows int64
}

// ErrorInfo describes a failed execution.
type ErrorInfo struct {
	ID      uuid.UUID
	Dialect string
	SQL     string
	Error   error
}

// ConnectionInfo describes a connection event.
type ConnectionInfo struct {
	// Event is connect, disconnect or ping.
	Event    string
	Dialect  string
	Duration time.Duration
	Success  bool
}

// Config holds telemetry configuration.
type Config struct {
	// Type is noop or memory.
	Type string

	// Capacity bounds the events a memory collector keeps (0 = 1000).
	Capacity int
}
