package llm

import (
	"context"
	"math"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
)

// OpenAIClient implements the domain LLMClient on the OpenAI API with
// pinned (near-zero temperature) sampling, so repeated questions against an
// unchanged collection produce repeatable answers.
type OpenAIClient struct {
	client         *openai.Client
	model          string
	embeddingModel openai.EmbeddingModel
}

var _ interfaces.LLMClient = &OpenAIClient{}

// OpenAIOption is a functional option for OpenAIClient configuration
type OpenAIOption func(*OpenAIClient)

// WithModel overrides the chat completion model.
func WithModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.model = model
	}
}

// WithEmbeddingModel overrides the embedding model.
func WithEmbeddingModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.embeddingModel = openai.EmbeddingModel(model)
	}
}

// NewOpenAI creates an OpenAI-backed LLM client.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, goerr.New("OpenAI API key is required")
	}

	c := &OpenAIClient{
		client:         openai.NewClient(apiKey),
		model:          openai.GPT4oMini,
		embeddingModel: openai.SmallEmbedding3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete generates a single chat completion.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		// go-openai drops a zero temperature via omitempty; the smallest
		// positive value keeps sampling pinned.
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "openai chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", goerr.New("empty openai response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateEmbedding returns one embedding vector per input text.
func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if len(input) == 0 {
		return nil, nil
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:      c.embeddingModel,
		Input:      input,
		Dimensions: dimension,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "openai embedding failed")
	}
	if len(resp.Data) != len(input) {
		return nil, goerr.New("embedding count mismatch",
			goerr.V("want", len(input)), goerr.V("got", len(resp.Data)))
	}

	embeddings := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float64, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float64(v)
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}
