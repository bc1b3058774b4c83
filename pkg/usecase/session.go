package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

// User-facing message texts. Phase transitions happen only on success paths;
// every failure message leaves the session where it was.
const (
	MsgGreeting = "Hello! Send a case number (e.g. A40-12345-2023), a 10- or 12-digit tax ID, or an organization name, and I will answer questions about the case documents."

	MsgHelp = "Commands:\n/start - reset the conversation and pick a case\n/change - switch to another case\n/help - show this message\n\nFirst send a case identifier, then confirm whether its documents are already indexed, then ask questions."

	MsgReadyPrompt = "Are the documents for this case already indexed?"

	MsgChoiceRequired = "Please answer with one of the buttons first."

	MsgCaseReady = "The case is ready. Ask your question about the documents."

	MsgIngestDone = "Case documents are indexed. Ask your question."

	MsgIngestFailed = "Failed to load the case documents. Please choose again to retry."

	MsgAnswerFailed = "Something went wrong while answering. Please try the question again."
)

// HandleText processes one free-form user message and returns the reply to
// render. Commands work in every phase; other input is interpreted by the
// session's current phase. A nil reply means nothing should be sent.
func (uc *UseCases) HandleText(ctx context.Context, id model.SessionID, text string) (*model.Reply, error) {
	text = strings.TrimSpace(text)

	switch strings.ToLower(text) {
	case "/start", "/change", "/reset":
		if _, err := uc.Reset(ctx, id); err != nil {
			return nil, err
		}
		return &model.Reply{Text: MsgGreeting}, nil
	case "/help":
		return &model.Reply{Text: MsgHelp}, nil
	}
	if text == "" {
		return nil, nil
	}

	session, err := uc.sessions.GetOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	// An unrecognized stored phase degrades to case identification.
	switch session.Phase.Normalize() {
	case types.PhaseAwaitingReadyChoice:
		return &model.Reply{Text: MsgChoiceRequired, OfferReadyChoice: true}, nil
	case types.PhaseReady:
		return uc.answerQuestion(ctx, session, text)
	default:
		return uc.identifyCase(ctx, session, text)
	}
}

// identifyCase classifies the input, binds the session to the case's
// collection, and asks whether the documents are already indexed.
func (uc *UseCases) identifyCase(ctx context.Context, session *model.Session, text string) (*model.Reply, error) {
	ref := model.ClassifyCase(text)
	session.IdentifyCase(ref)

	if err := uc.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("case identified",
		"sessionID", session.ID,
		"caseType", ref.Type,
		"collection", ref.CollectionKey,
	)
	return &model.Reply{Text: MsgReadyPrompt, OfferReadyChoice: true}, nil
}

// answerQuestion runs retrieval and answer synthesis for one question. A
// failure becomes a visible retry message and never moves the session out of
// the Q&A phase.
func (uc *UseCases) answerQuestion(ctx context.Context, session *model.Session, question string) (*model.Reply, error) {
	rctx, err := uc.retriever.Retrieve(ctx, session.CollectionKey, question)
	if err != nil {
		logging.From(ctx).Error("retrieval failed",
			"sessionID", session.ID, "collection", session.CollectionKey, "error", err.Error())
		return &model.Reply{Text: MsgAnswerFailed}, nil
	}

	text, err := uc.composer.Compose(ctx, question, rctx)
	if err != nil {
		logging.From(ctx).Error("answer synthesis failed",
			"sessionID", session.ID, "collection", session.CollectionKey, "error", err.Error())
		return &model.Reply{Text: MsgAnswerFailed}, nil
	}

	return &model.Reply{Text: model.FormatReply(text)}, nil
}

// HandleReadyChoice processes a ready-choice button press. The indexed
// answer promotes the session immediately; the needs-indexing answer runs
// the full ingestion pipeline and promotes only when it succeeds. If the
// session was reset while ingestion ran, the completion is discarded and a
// nil reply is returned.
func (uc *UseCases) HandleReadyChoice(ctx context.Context, id model.SessionID, choice types.ReadyChoice) (*model.Reply, error) {
	session, err := uc.sessions.GetOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Phase != types.PhaseAwaitingReadyChoice {
		// Stale button from a previous case, or a press after a reset.
		return nil, nil
	}

	switch choice {
	case types.ReadyChoiceIndexed:
		session.MarkReady()
		if err := uc.sessions.Update(ctx, session); err != nil {
			if errors.Is(err, interfaces.ErrStaleSession) {
				return nil, nil
			}
			return nil, err
		}
		return &model.Reply{Text: MsgCaseReady}, nil

	case types.ReadyChoiceNeedsIndexing:
		return uc.ingestCase(ctx, session)

	default:
		return &model.Reply{Text: MsgChoiceRequired, OfferReadyChoice: true}, nil
	}
}

// ingestCase runs ingestion for the session's case. The session handle
// captured before the run guards the commit: a reset during ingestion makes
// the Update stale and the completion a no-op.
func (uc *UseCases) ingestCase(ctx context.Context, session *model.Session) (*model.Reply, error) {
	ref := model.CaseRef{
		Query:         session.CaseQuery,
		Type:          session.CaseType,
		CollectionKey: session.CollectionKey,
	}

	result, err := uc.pipeline.Run(ctx, ref)
	if err != nil {
		logging.From(ctx).Error("ingestion failed",
			"sessionID", session.ID, "collection", session.CollectionKey, "error", err.Error())
		return &model.Reply{Text: MsgIngestFailed, OfferReadyChoice: true}, nil
	}

	session.MarkReady()
	if err := uc.sessions.Update(ctx, session); err != nil {
		if errors.Is(err, interfaces.ErrStaleSession) {
			logging.From(ctx).Info("discarding ingestion result for reset session",
				"sessionID", session.ID, "collection", session.CollectionKey)
			return nil, nil
		}
		return nil, err
	}

	logging.From(ctx).Info("case indexed",
		"sessionID", session.ID,
		"collection", session.CollectionKey,
		"documents", result.Documents,
		"added", result.Added,
	)
	return &model.Reply{Text: MsgIngestDone}, nil
}

// Reset discards the conversation's session and installs a fresh one.
func (uc *UseCases) Reset(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := uc.sessions.Replace(ctx, id)
	if err != nil {
		return nil, err
	}
	logging.From(ctx).Info("session reset", "sessionID", id)
	return session, nil
}

// CurrentPhase reports the conversation's phase without mutating it. The
// transport uses it to decide whether a turn warrants an interim notice.
func (uc *UseCases) CurrentPhase(ctx context.Context, id model.SessionID) (types.SessionPhase, error) {
	session, err := uc.sessions.GetOrCreate(ctx, id)
	if err != nil {
		return "", err
	}
	return session.Phase, nil
}
