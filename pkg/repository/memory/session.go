package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
)

// SessionRepository is an in-memory session store. Session state is
// ephemeral by design: losing it only means the next message starts a fresh
// session.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[model.SessionID]*model.Session
}

var _ interfaces.SessionRepository = &SessionRepository{}

// NewSessionRepository creates an empty in-memory session store.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[model.SessionID]*model.Session),
	}
}

// GetOrCreate returns a copy of the stored session, creating one if needed.
func (r *SessionRepository) GetOrCreate(ctx context.Context, id model.SessionID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s.Clone(), nil
	}

	created := model.NewSession(id)
	r.sessions[id] = created
	return created.Clone(), nil
}

// Update commits the session if the stored handle still matches. A mismatch
// means the session was replaced while the caller held its copy; the update
// is dropped so a stale completion cannot leak into the new session.
func (r *SessionRepository) Update(ctx context.Context, session *model.Session) error {
	if err := session.Validate(); err != nil {
		return goerr.Wrap(err, "refusing to store invalid session")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[session.ID]
	if !ok || stored.Handle != session.Handle {
		return goerr.Wrap(interfaces.ErrStaleSession, "session update dropped",
			goerr.V("sessionID", session.ID))
	}

	r.sessions[session.ID] = session.Clone()
	return nil
}

// Replace installs a fresh session regardless of what is stored, returning a
// copy. The new session carries a new handle.
func (r *SessionRepository) Replace(ctx context.Context, id model.SessionID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := model.NewSession(id)
	r.sessions[id] = created
	return created.Clone(), nil
}
