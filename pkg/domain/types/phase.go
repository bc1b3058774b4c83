package types

import "fmt"

// SessionPhase represents where a conversation is in the case workflow
type SessionPhase string

const (
	// PhaseAwaitingCase means the session waits for a case identifier
	// (tax ID, case number, or organization name).
	PhaseAwaitingCase SessionPhase = "AWAITING_CASE"

	// PhaseAwaitingReadyChoice means a case is identified and the session
	// waits for the user to confirm whether its documents are already
	// indexed.
	PhaseAwaitingReadyChoice SessionPhase = "AWAITING_READY_CHOICE"

	// PhaseReady means the collection is selected and the session answers
	// questions.
	PhaseReady SessionPhase = "READY"
)

// AllSessionPhases returns all valid session phases
func AllSessionPhases() []SessionPhase {
	return []SessionPhase{
		PhaseAwaitingCase,
		PhaseAwaitingReadyChoice,
		PhaseReady,
	}
}

// IsValid checks if the session phase is valid
func (p SessionPhase) IsValid() bool {
	switch p {
	case PhaseAwaitingCase,
		PhaseAwaitingReadyChoice,
		PhaseReady:
		return true
	default:
		return false
	}
}

// Normalize returns the phase, treating anything unrecognized as
// PhaseAwaitingCase so a corrupted session degrades to re-identification
// instead of answering against an unknown collection.
func (p SessionPhase) Normalize() SessionPhase {
	if !p.IsValid() {
		return PhaseAwaitingCase
	}
	return p
}

// String returns the string representation of the session phase
func (p SessionPhase) String() string {
	return string(p)
}

// ParseSessionPhase parses a string into a SessionPhase
func ParseSessionPhase(s string) (SessionPhase, error) {
	phase := SessionPhase(s)
	if !phase.IsValid() {
		return "", fmt.Errorf("invalid session phase: %s", s)
	}
	return phase, nil
}
