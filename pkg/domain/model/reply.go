package model

import "regexp"

// MaxReplyLength caps outgoing chat messages, matching the transport's
// message size limit.
const MaxReplyLength = 4000

// Models emit double-asterisk bold; the chat transport renders
// single-asterisk bold.
var boldMarkdown = regexp.MustCompile(`\*\*(.+?)\*\*`)

// Reply is the core's response to one user turn. The transport decides how
// to render it; OfferReadyChoice asks for the indexed/needs-indexing buttons.
type Reply struct {
	Text             string
	OfferReadyChoice bool
}

// FormatReply rewrites bold markers for the chat transport and bounds the
// result to MaxReplyLength.
func FormatReply(text string) string {
	return TruncateReply(boldMarkdown.ReplaceAllString(text, "*$1*"))
}

// TruncateReply bounds reply text to MaxReplyLength without splitting a rune.
func TruncateReply(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxReplyLength {
		return text
	}
	return string(runes[:MaxReplyLength])
}
