package chat

// State is where a send is in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateSending   State = "sending"   // user message and placeholder appended, no fragment yet
	StateStreaming State = "streaming" // at least one fragment applied
	StateSettled   State = "settled"   // stream ended, messages persisted
	StateFailed    State = "failed"    // placeholder retracted
)

// Done reports whether the state is terminal.
func (s State) Done() bool {
	return s == StateSettled || s == StateFailed
}

// validTransitions lists the allowed next states
var validTransitions = map[State][]State{
	StateIdle:      {StateSending},
	StateSending:   {StateStreaming, StateSettled, StateFailed},
	StateStreaming: {StateSettled, StateFailed},
}

// canTransition reports whether from -> to is allowed.
func canTransition(from, to State) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
