package telemetry

import (
	"fmt"
)

// Type names a telemetry implementation.
type Type string

const (
	// TypeNoop discards events.
	TypeNoop Type = "noop"

	// TypeMemory keeps events in memory.
	TypeMemory Type = "memory"
)

// NewTelemetry creates a telemetry adapter based on configuration.
func NewTelemetry(config *Config) (Telemetry, error) {
	if config == nil {
		return NewNoopTelemetry(), nil
	}

	switch Type(config.Type) {
	case TypeNoop, "":
		return NewNoopTelemetry(), nil
	case TypeMemory:
		return NewMemoryTelemetry(config), nil
	default:
		return nil, fmt.Errorf("unknown telemetry type: %s", config.Type)
	}
}
