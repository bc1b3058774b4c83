package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
)

// SessionID identifies one conversation endpoint (chat channel + user).
type SessionID string

// SessionHandle is a unique token minted when a session is created. A reset
// replaces the whole session and with it the handle, so a background task
// started against the old session can detect that its result is stale.
type SessionHandle string

// NewSessionHandle generates a new UUID v4 SessionHandle
func NewSessionHandle() SessionHandle {
	return SessionHandle(uuid.New().String())
}

// Session is the per-conversation workflow state. It is mutated only by the
// session use case, one turn at a time, and replaced wholesale on reset.
type Session struct {
	ID            SessionID
	Handle        SessionHandle
	Phase         types.SessionPhase
	CaseQuery     string
	CaseType      types.CaseType
	CollectionKey string
	CreatedAt     time.Time
}

// NewSession creates a fresh session in the initial phase.
func NewSession(id SessionID) *Session {
	return &Session{
		ID:        id,
		Handle:    NewSessionHandle(),
		Phase:     types.PhaseAwaitingCase,
		CreatedAt: time.Now().UTC(),
	}
}

// IdentifyCase records the classified case and advances the session to the
// ready-choice phase.
func (s *Session) IdentifyCase(ref CaseRef) {
	s.CaseQuery = ref.Query
	s.CaseType = ref.Type
	s.CollectionKey = ref.CollectionKey
	s.Phase = types.PhaseAwaitingReadyChoice
}

// MarkReady advances the session to the Q&A phase.
func (s *Session) MarkReady() {
	s.Phase = types.PhaseReady
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	copied := *s
	return &copied
}

// Validate checks the phase/collection invariant: the collection key must be
// set in every phase after case identification and unset before it.
func (s *Session) Validate() error {
	if !s.Phase.IsValid() {
		return goerr.New("invalid session phase", goerr.V("phase", s.Phase))
	}
	hasKey := s.CollectionKey != ""
	if s.Phase == types.PhaseAwaitingCase && hasKey {
		return goerr.New("collection key must be empty before case identification",
			goerr.V("sessionID", s.ID))
	}
	if s.Phase != types.PhaseAwaitingCase && !hasKey {
		return goerr.New("collection key is required after case identification",
			goerr.V("sessionID", s.ID), goerr.V("phase", s.Phase))
	}
	return nil
}
