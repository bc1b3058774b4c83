package interfaces

import (
	"context"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
)

// SessionRepository stores per-conversation workflow state. Implementations
// must treat the (phase, collection key) pair atomically per call: callers
// read a snapshot, compute, and commit via Update/Replace.
type SessionRepository interface {
	// GetOrCreate returns a copy of the session for the conversation,
	// creating a fresh one in the initial phase if none exists.
	GetOrCreate(ctx context.Context, id model.SessionID) (*model.Session, error)

	// Update commits the session only if the stored session still carries
	// the same handle. A stale handle (the session was reset meanwhile)
	// returns ErrStaleSession and leaves the stored session untouched.
	Update(ctx context.Context, session *model.Session) error

	// Replace discards any existing session and installs a fresh one in the
	// initial phase, returning a copy of it.
	Replace(ctx context.Context, id model.SessionID) (*model.Session, error)
}
