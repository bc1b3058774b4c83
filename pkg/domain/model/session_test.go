package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
)

func TestSessionLifecycle(t *testing.T) {
	t.Run("new session starts awaiting a case", func(t *testing.T) {
		s := model.NewSession("C1:U1")
		gt.Value(t, s.Phase).Equal(types.PhaseAwaitingCase)
		gt.Value(t, s.CollectionKey).Equal("")
		gt.Bool(t, s.CreatedAt.IsZero()).False()
		gt.NoError(t, s.Validate())
	})

	t.Run("identify case advances to ready choice", func(t *testing.T) {
		s := model.NewSession("C1:U1")
		ref := model.ClassifyCase("A40-12345-2023")

		s.IdentifyCase(ref)
		gt.Value(t, s.Phase).Equal(types.PhaseAwaitingReadyChoice)
		gt.Value(t, s.CaseQuery).Equal(ref.Query)
		gt.Value(t, s.CaseType).Equal(ref.Type)
		gt.Value(t, s.CollectionKey).Equal(ref.CollectionKey)
		gt.NoError(t, s.Validate())
	})

	t.Run("mark ready advances to Q&A", func(t *testing.T) {
		s := model.NewSession("C1:U1")
		s.IdentifyCase(model.ClassifyCase("A40-12345-2023"))
		s.MarkReady()
		gt.Value(t, s.Phase).Equal(types.PhaseReady)
		gt.NoError(t, s.Validate())
	})

	t.Run("handles are unique per session", func(t *testing.T) {
		a := model.NewSession("C1:U1")
		b := model.NewSession("C1:U1")
		gt.Value(t, a.Handle).NotEqual(b.Handle)
	})

	t.Run("clone is independent", func(t *testing.T) {
		s := model.NewSession("C1:U1")
		c := s.Clone()
		c.IdentifyCase(model.ClassifyCase("A40-12345-2023"))
		gt.Value(t, s.Phase).Equal(types.PhaseAwaitingCase)
		gt.Value(t, c.Phase).Equal(types.PhaseAwaitingReadyChoice)
	})
}

func TestSessionValidate(t *testing.T) {
	t.Run("collection key before identification is invalid", func(t *testing.T) {
		s := model.NewSession("C1:U1")
		s.CollectionKey = "case_a40_deadbeef1234"
		gt.Error(t, s.Validate())
	})

	t.Run("missing collection key after identification is invalid", func(t *testing.T) {
		s := model.NewSession("C1:U1")
		s.IdentifyCase(model.ClassifyCase("A40-12345-2023"))
		s.CollectionKey = ""
		gt.Error(t, s.Validate())
	})

	t.Run("unknown phase is invalid", func(t *testing.T) {
		s := model.NewSession("C1:U1")
		s.Phase = types.SessionPhase("BOGUS")
		gt.Error(t, s.Validate())
	})
}
