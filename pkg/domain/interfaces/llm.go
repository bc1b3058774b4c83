package interfaces

import "context"

// LLMClient is the narrow surface the core needs from a language model
// provider. Implementations live in pkg/service/llm.
type LLMClient interface {
	// Complete generates a single completion for the given system and user
	// prompts. Implementations use deterministic sampling so repeated
	// questions against an unchanged collection produce repeatable answers.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// GenerateEmbedding returns one embedding vector per input text, each of
	// the requested dimension. Embeddings are deterministic for identical
	// text.
	GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error)
}
