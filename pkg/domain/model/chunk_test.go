package model_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
)

func TestChunkID(t *testing.T) {
	t.Run("same text yields same ID", func(t *testing.T) {
		gt.Value(t, model.ChunkID("решение суда")).Equal(model.ChunkID("решение суда"))
	})

	t.Run("different text yields different ID", func(t *testing.T) {
		gt.Value(t, model.ChunkID("alpha")).NotEqual(model.ChunkID("beta"))
	})

	t.Run("ID is a valid UUID", func(t *testing.T) {
		_, err := uuid.Parse(model.ChunkID("alpha"))
		gt.NoError(t, err)
	})

	t.Run("NewChunk carries the content ID", func(t *testing.T) {
		c := model.NewChunk("alpha")
		gt.Value(t, c.ID).Equal(model.ChunkID("alpha"))
		gt.Value(t, c.Text).Equal("alpha")
	})
}

func TestTruncateReply(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		gt.Value(t, model.TruncateReply("short")).Equal("short")
	})

	t.Run("long text bounded without splitting runes", func(t *testing.T) {
		long := ""
		for len([]rune(long)) < model.MaxReplyLength+100 {
			long += "решение "
		}
		out := model.TruncateReply(long)
		gt.Number(t, len([]rune(out))).Equal(model.MaxReplyLength)
	})
}

func TestFormatReply(t *testing.T) {
	t.Run("double-asterisk bold becomes transport bold", func(t *testing.T) {
		got := model.FormatReply("**Вердикт**: иск отклонён, **в полном объёме**.")
		gt.Value(t, got).Equal("*Вердикт*: иск отклонён, *в полном объёме*.")
	})

	t.Run("single asterisks untouched", func(t *testing.T) {
		gt.Value(t, model.FormatReply("a*b*c")).Equal("a*b*c")
	})

	t.Run("plain text unchanged", func(t *testing.T) {
		gt.Value(t, model.FormatReply("The claim was dismissed.")).Equal("The claim was dismissed.")
	})

	t.Run("long replies stay bounded", func(t *testing.T) {
		long := ""
		for len([]rune(long)) < model.MaxReplyLength+100 {
			long += "**решение** "
		}
		out := model.FormatReply(long)
		gt.Number(t, len([]rune(out))).Equal(model.MaxReplyLength)
	})
}
