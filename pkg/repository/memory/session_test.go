package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
	"github.com/fatmaann/agent-judgement-assistant/pkg/repository/memory"
)

func TestSessionRepository(t *testing.T) {
	const id = model.SessionID("C1:U1")

	t.Run("GetOrCreate creates a fresh session", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		ctx := context.Background()

		s, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, s.ID).Equal(id)
		gt.Value(t, s.Phase).Equal(types.PhaseAwaitingCase)
	})

	t.Run("GetOrCreate returns the stored session on repeat", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		ctx := context.Background()

		first, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		second, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, second.Handle).Equal(first.Handle)
	})

	t.Run("GetOrCreate returns a copy", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		ctx := context.Background()

		s, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		s.Phase = types.PhaseReady // mutate the copy only

		stored, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Phase).Equal(types.PhaseAwaitingCase)
	})

	t.Run("Update commits matching handle", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		ctx := context.Background()

		s, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		s.IdentifyCase(model.ClassifyCase("A40-12345-2023"))
		gt.NoError(t, repo.Update(ctx, s)).Required()

		stored, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Phase).Equal(types.PhaseAwaitingReadyChoice)
	})

	t.Run("Update after Replace is stale", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		ctx := context.Background()

		s, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		s.IdentifyCase(model.ClassifyCase("A40-12345-2023"))

		// The conversation was reset while the caller held its copy
		_, err = repo.Replace(ctx, id)
		gt.NoError(t, err).Required()

		err = repo.Update(ctx, s)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, interfaces.ErrStaleSession)).True()

		stored, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Phase).Equal(types.PhaseAwaitingCase)
	})

	t.Run("Update of unknown session is stale", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		ctx := context.Background()

		s := model.NewSession("C9:U9")
		err := repo.Update(ctx, s)
		gt.Bool(t, errors.Is(err, interfaces.ErrStaleSession)).True()
	})

	t.Run("Update refuses invalid session", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		ctx := context.Background()

		s, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		s.Phase = types.PhaseReady // no collection key

		gt.Error(t, repo.Update(ctx, s))
	})

	t.Run("Replace mints a new handle", func(t *testing.T) {
		repo := memory.NewSessionRepository()
		ctx := context.Background()

		first, err := repo.GetOrCreate(ctx, id)
		gt.NoError(t, err).Required()
		replaced, err := repo.Replace(ctx, id)
		gt.NoError(t, err).Required()

		gt.Value(t, replaced.Handle).NotEqual(first.Handle)
		gt.Value(t, replaced.Phase).Equal(types.PhaseAwaitingCase)
	})
}
