package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
	slacksvc "github.com/fatmaann/agent-judgement-assistant/pkg/service/slack"
	"github.com/fatmaann/agent-judgement-assistant/pkg/usecase"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/async"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/errutil"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

// ingestNotice replaces the button message while documents are being
// fetched and indexed.
const ingestNotice = "Loading case documents, please wait..."

// SlackInteractionHandler handles Slack interactive component payloads
// (the ready-choice button clicks).
type SlackInteractionHandler struct {
	uc         *usecase.UseCases
	slack      slacksvc.Service
	dispatcher *async.Dispatcher
}

// NewSlackInteractionHandler creates a new Slack interaction handler.
func NewSlackInteractionHandler(uc *usecase.UseCases, svc slacksvc.Service, dispatcher *async.Dispatcher) *SlackInteractionHandler {
	return &SlackInteractionHandler{
		uc:         uc,
		slack:      svc,
		dispatcher: dispatcher,
	}
}

// ServeHTTP handles Slack interaction webhook requests.
func (h *SlackInteractionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Slack sends interaction payloads as application/x-www-form-urlencoded
	// with a "payload" field containing JSON
	payload := r.FormValue("payload")
	if payload == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing payload field in interaction request"), http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse interaction payload"), http.StatusBadRequest)
		return
	}

	if callback.Type != slack.InteractionTypeBlockActions {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Ack before doing any work; ingestion can take minutes
	w.WriteHeader(http.StatusOK)

	channelID := callback.Channel.ID
	userID := callback.User.ID
	messageTS := callback.Message.Timestamp

	for _, action := range callback.ActionCallback.BlockActions {
		choice, err := types.ParseReadyChoice(action.ActionID)
		if err != nil {
			continue
		}

		// Serialized with the conversation's other turns
		h.dispatcher.Dispatch(ctx, string(sessionID(channelID, userID)), func(ctx context.Context) error {
			return h.handleChoice(ctx, channelID, userID, messageTS, choice)
		})
	}
}

// handleChoice applies one button press. The button message is edited in
// place so the buttons cannot be pressed twice; for the needs-indexing
// choice it doubles as the progress notice.
func (h *SlackInteractionHandler) handleChoice(ctx context.Context, channelID, userID, messageTS string, choice types.ReadyChoice) error {
	if choice == types.ReadyChoiceNeedsIndexing && messageTS != "" {
		if err := h.slack.UpdateMessage(ctx, channelID, messageTS, ingestNotice); err != nil {
			logging.From(ctx).Warn("failed to update choice message", "error", err.Error())
		}
	}

	id := sessionID(channelID, userID)
	reply, err := h.uc.HandleReadyChoice(ctx, id, choice)
	if err != nil {
		return goerr.Wrap(err, "failed to handle ready choice", goerr.V("sessionID", id))
	}
	return postReply(ctx, h.slack, channelID, reply)
}
