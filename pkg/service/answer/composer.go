package answer

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/m-mizutani/goerr/v2"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/types"
)

//go:embed prompt/answer_system.md
var answerSystemPrompt string

const (
	// MsgNoData is returned when the case collection holds no documents.
	MsgNoData = "No indexed documents were found for this case. Use the reset command to pick the case again and choose to index its documents."

	// MsgNothingFound is returned when search produced no relevant chunks.
	MsgNothingFound = "Nothing relevant to this question was found in the case documents. Try rephrasing the question."
)

// Composer turns a question and retrieved context into a grounded answer.
// Sentinel or empty context short-circuits to a fixed message without
// spending a completion call, which also avoids answering from nothing.
type Composer struct {
	llm interfaces.LLMClient
}

// New creates an answer composer.
func New(llm interfaces.LLMClient) *Composer {
	return &Composer{llm: llm}
}

// Compose produces the answer text for one question.
func (c *Composer) Compose(ctx context.Context, question string, rctx model.RetrievalContext) (string, error) {
	switch rctx.State {
	case types.RetrievalNoData:
		return MsgNoData, nil
	case types.RetrievalNothingFound:
		return MsgNothingFound, nil
	}
	if !rctx.Usable() {
		return MsgNoData, nil
	}

	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", rctx.Text, question)
	text, err := c.llm.Complete(ctx, answerSystemPrompt, userPrompt)
	if err != nil {
		return "", goerr.Wrap(err, "answer synthesis failed")
	}
	return text, nil
}
