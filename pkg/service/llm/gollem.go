package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
)

// GollemClient adapts a gollem LLM client (Gemini, etc.) to the domain
// LLMClient interface.
type GollemClient struct {
	llm gollem.LLMClient
}

var _ interfaces.LLMClient = &GollemClient{}

// NewGollem wraps a gollem LLM client.
func NewGollem(client gollem.LLMClient) (*GollemClient, error) {
	if client == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &GollemClient{llm: client}, nil
}

// Complete generates a single completion via a one-shot gollem session.
func (c *GollemClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	session, err := c.llm.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(userPrompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.New("empty LLM response")
	}

	return strings.TrimSpace(strings.Join(resp.Texts, "\n")), nil
}

// GenerateEmbedding delegates to the underlying gollem client.
func (c *GollemClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	embeddings, err := c.llm.GenerateEmbedding(ctx, dimension, input)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	return embeddings, nil
}
