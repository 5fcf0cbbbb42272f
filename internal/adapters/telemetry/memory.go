package telemetry

import (
	"context"
	"sync"
	"time"
)

const defaultCapacity = 1000

// MemoryTelemetry keeps recent events and running totals in memory.
type MemoryTelemetry struct {
	mu          sync.RWMutex
	capacity    int
	queries     []QueryInfo
	errors      []ErrorInfo
	connections []ConnectionInfo
	totals      Totals
	closed      bool
}

// Totals are running counters across all recorded events.
type Totals struct {
	Queries       int64
	Failures      int64
	Rows          int64
	TotalDuration time.Duration
	ByDialect     map[string]int64
}

// NewMemoryTelemetry creates an in-memory collector.
func NewMemoryTelemetry(config *Config) *MemoryTelemetry {
	capacity := defaultCapacity
	if config != nil && config.Capacity > 0 {
		capacity = config.Capacity
	}
	return &MemoryTelemetry{
		capacity: capacity,
		totals:   Totals{ByDialect: make(map[string]int64)},
	}
}

// RecordQuery records a statement execution.
func (m *MemoryTelemetry) RecordQuery(ctx context.Context, info QueryInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	m.queries = appendBounded(m.queries, info, m.capacity)
	m.totals.Queries++
	if !info.Success {
		m.totals.Failures++
	}
	m.totals.Rows += info.Rows
	m.totals.TotalDuration += info.Duration
	m.totals.ByDialect[info.Dialect]++
}

// RecordError records a failed execution.
func (m *MemoryTelemetry) RecordError(ctx context.Context, info ErrorInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.errors = appendBounded(m.errors, info, m.capacity)
}

// RecordConnection records a connection event.
func (m *MemoryTelemetry) RecordConnection(ctx context.Context, info ConnectionInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.connections = appendBounded(m.connections, info, m.capacity)
}

// Queries returns the recorded executions, oldest first.
func (m *MemoryTelemetry) Queries() []QueryInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]QueryInfo(nil), m.queries...)
}

// Errors returns the recorded failures, oldest first.
func (m *MemoryTelemetry) Errors() []ErrorInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ErrorInfo(nil), m.errors...)
}

// Connections returns the recorded connection events, oldest first.
func (m *MemoryTelemetry) Connections() []ConnectionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ConnectionInfo(nil), m.connections...)
}

// Totals returns a snapshot of the running counters.
func (m *MemoryTelemetry) Totals() Totals {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t := m.totals
	t.ByDialect = make(map[string]int64, len(m.totals.ByDialect))
	for k, v := range m.totals.ByDialect {
		t.ByDialect[k] = v
	}
	return t
}

// Flush does nothing; events are already in memory.
func (m *MemoryTelemetry) Flush(ctx context.Context) error {
	return nil
}

// Close stops recording. Recorded events stay readable.
func (m *MemoryTelemetry) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func appendBounded[T any](s []T, v T, capacity int) []T {
	s = append(s, v)
	if len(s) > capacity {
		s = s[len(s)-capacity:]
	}
	return s
}

var _ Telemetry = (*MemoryTelemetry)(nil)
