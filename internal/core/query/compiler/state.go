package compiler

import "fmt"

// State is a step of the compilation state machine. Steps run in
// declaration order and never go back.
type State int

const (
	StateSelect State = iota
	StateFrom
	StateWhere
	StateGroup
	StateOrder
	StateLimit
	StateDone
)

var stateNames = [...]string{
	StateSelect: "COMPILING_SELECT",
	StateFrom:   "COMPILING_FROM",
	StateWhere:  "COMPILING_WHERE",
	StateGroup:  "COMPILING_GROUP",
	StateOrder:  "COMPILING_ORDER",
	StateLimit:  "COMPILING_LIMIT",
	StateDone:   "DONE",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// StateError records the state a compilation failed in.
type StateError struct {
	State State
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

// Unwrap returns the underlying error.
func (e *StateError) Unwrap() error { return e.Err }
