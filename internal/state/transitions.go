package state

// validTransitions contains the permitted transitions in the FSM.
var validTransitions = map[State][]State{
	StateIdle: {
		StateAwaitingNote,
	},
	StateAwaitingNote: {
		StateIdle,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
// Returning to idle is always permitted so that /cancel and error recovery
// work from any state.
func IsTransitionAllowed(from, to State) bool {
	if to == StateIdle {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == to {
			return true
		}
	}

	return false
}
