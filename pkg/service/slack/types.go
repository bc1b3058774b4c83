package slack

import "context"

// Service is the outgoing side of the chat transport: plain messages, the
// ready-choice buttons, and edits/removal of interim notices.
type Service interface {
	// PostMessage posts a plain text message and returns its timestamp.
	PostMessage(ctx context.Context, channelID, text string) (string, error)

	// PostReadyChoice posts the "already indexed / needs indexing" buttons
	// under the given text.
	PostReadyChoice(ctx context.Context, channelID, text string) error

	// UpdateMessage replaces a posted message with plain text, dropping any
	// buttons it carried.
	UpdateMessage(ctx context.Context, channelID, timestamp, text string) error

	// DeleteMessage removes a posted message (interim notices).
	DeleteMessage(ctx context.Context, channelID, timestamp string) error
}
