package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
)

// ReadyChoiceBlockID marks the actions block carrying the ready-choice
// buttons; the interaction handler routes callbacks by the button action
// IDs, which are the types.ReadyChoice values.
const ReadyChoiceBlockID = "case_ready_choice"

type client struct {
	api *slack.Client
}

var _ Service = &client{}

// New creates a Slack service with the provided bot token.
func New(botToken string) (Service, error) {
	if botToken == "" {
		return nil, goerr.New("slack bot token is required")
	}
	return &client{api: slack.New(botToken)}, nil
}

func (c *client) PostMessage(ctx context.Context, channelID, text string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post slack message", goerr.V("channel", channelID))
	}
	return ts, nil
}

func (c *client) PostReadyChoice(ctx context.Context, channelID, text string) error {
	section := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.PlainTextType, text, false, false),
		nil, nil,
	)
	actions := slack.NewActionBlock(ReadyChoiceBlockID,
		slack.NewButtonBlockElement(
			types.ReadyChoiceIndexed.String(),
			types.ReadyChoiceIndexed.String(),
			slack.NewTextBlockObject(slack.PlainTextType, "Yes, already indexed", false, false),
		),
		slack.NewButtonBlockElement(
			types.ReadyChoiceNeedsIndexing.String(),
			types.ReadyChoiceNeedsIndexing.String(),
			slack.NewTextBlockObject(slack.PlainTextType, "No, index them now", false, false),
		),
	)

	_, _, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionBlocks(section, actions),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post ready choice", goerr.V("channel", channelID))
	}
	return nil
}

func (c *client) UpdateMessage(ctx context.Context, channelID, timestamp, text string) error {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channelID, timestamp,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to update slack message",
			goerr.V("channel", channelID), goerr.V("ts", timestamp))
	}
	return nil
}

func (c *client) DeleteMessage(ctx context.Context, channelID, timestamp string) error {
	_, _, err := c.api.DeleteMessageContext(ctx, channelID, timestamp)
	if err != nil {
		return goerr.Wrap(err, "failed to delete slack message",
			goerr.V("channel", channelID), goerr.V("ts", timestamp))
	}
	return nil
}
