package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack/slackevents"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
	slacksvc "github.com/fatmaann/agent-judgement-assistant/pkg/service/slack"
	"github.com/fatmaann/agent-judgement-assistant/pkg/usecase"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/async"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/errutil"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

// interimNotice is shown while a question is being answered; it is deleted
// once the answer is posted.
const interimNotice = "Processing your request..."

// verifySlackSignature verifies the Slack request signature.
// This is a pure function that can be used independently for testing.
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}

	if signature == "" {
		return goerr.New("missing signature")
	}

	// Check timestamp to prevent replay attacks (within 5 minutes)
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	now := time.Now().Unix()
	if now-ts > 60*5 {
		return goerr.New("timestamp too old", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SlackSignatureMiddleware creates a middleware that verifies Slack request signatures
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			defer func() {
				if err := r.Body.Close(); err != nil {
					logging.From(ctx).Error("failed to close request body", "error", err)
				}
			}()

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "slack signature verification failed"), http.StatusUnauthorized)
				return
			}

			// Restore the consumed body for the handler
			r.Body = io.NopCloser(bytes.NewBuffer(body))

			next.ServeHTTP(w, r)
		})
	}
}

// SlackEventHandler handles Slack Events API webhook requests.
type SlackEventHandler struct {
	uc         *usecase.UseCases
	slack      slacksvc.Service
	dispatcher *async.Dispatcher
}

// NewSlackEventHandler creates a new Slack event handler.
func NewSlackEventHandler(uc *usecase.UseCases, svc slacksvc.Service, dispatcher *async.Dispatcher) *SlackEventHandler {
	return &SlackEventHandler{
		uc:         uc,
		slack:      svc,
		dispatcher: dispatcher,
	}
}

// sessionID scopes a session to one user in one channel.
func sessionID(channelID, userID string) model.SessionID {
	return model.SessionID(channelID + ":" + userID)
}

// ServeHTTP handles Slack webhook requests.
func (h *SlackEventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slack event"), http.StatusBadRequest)
		return
	}

	switch eventsAPIEvent.Type {
	case slackevents.URLVerification:
		var cr *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &cr); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to unmarshal challenge"), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(cr.Challenge)); err != nil {
			logging.From(ctx).Error("failed to write challenge response", "error", err)
		}
		return

	case slackevents.CallbackEvent:
		// Return 200 immediately to satisfy Slack's 3-second timeout requirement
		w.WriteHeader(http.StatusOK)

		msg, ok := eventsAPIEvent.InnerEvent.Data.(*slackevents.MessageEvent)
		if !ok {
			return
		}
		// Ignore bot messages and edits to avoid reply loops
		if msg.BotID != "" || msg.SubType != "" {
			return
		}

		// Turns for one conversation must not overlap
		h.dispatcher.Dispatch(ctx, string(sessionID(msg.Channel, msg.User)), func(ctx context.Context) error {
			return h.handleMessage(ctx, msg.Channel, msg.User, msg.Text)
		})

	default:
		logging.From(ctx).Warn("unknown slack event type", "type", eventsAPIEvent.Type)
		w.WriteHeader(http.StatusOK)
	}
}

// handleMessage runs one conversational turn. Turns in the Q&A phase are
// slow (retrieval plus completion), so an interim notice is posted up front
// and removed when the answer lands.
func (h *SlackEventHandler) handleMessage(ctx context.Context, channelID, userID, text string) error {
	id := sessionID(channelID, userID)

	phase, err := h.uc.CurrentPhase(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to read session phase", goerr.V("sessionID", id))
	}

	var interimTS string
	if phase == types.PhaseReady {
		ts, err := h.slack.PostMessage(ctx, channelID, interimNotice)
		if err != nil {
			logging.From(ctx).Warn("failed to post interim notice", "error", err.Error())
		} else {
			interimTS = ts
		}
	}

	reply, err := h.uc.HandleText(ctx, id, text)

	if interimTS != "" {
		if delErr := h.slack.DeleteMessage(ctx, channelID, interimTS); delErr != nil {
			logging.From(ctx).Warn("failed to delete interim notice", "error", delErr.Error())
		}
	}

	if err != nil {
		return goerr.Wrap(err, "failed to handle message", goerr.V("sessionID", id))
	}
	return postReply(ctx, h.slack, channelID, reply)
}

// postReply renders a use case reply: buttons when requested, plain text
// otherwise, nothing for a nil reply.
func postReply(ctx context.Context, svc slacksvc.Service, channelID string, reply *model.Reply) error {
	if reply == nil {
		return nil
	}
	if reply.OfferReadyChoice {
		if err := svc.PostReadyChoice(ctx, channelID, reply.Text); err != nil {
			return goerr.Wrap(err, "failed to post ready choice reply")
		}
		return nil
	}
	if _, err := svc.PostMessage(ctx, channelID, reply.Text); err != nil {
		return goerr.Wrap(err, "failed to post reply")
	}
	return nil
}
