package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/llm"
)

// LLM holds configuration for the completion and embedding backend.
type LLM struct {
	provider string

	openaiAPIKey         string
	openaiModel          string
	openaiEmbeddingModel string

	geminiProjectID string
	geminiLocation  string

	dimension int
}

// Flags returns CLI flags for LLM configuration
func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider (openai, gemini)",
			Category:    "LLM",
			Value:       "openai",
			Sources:     cli.EnvVars("JA_LLM_PROVIDER"),
			Destination: &x.provider,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("JA_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &x.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI chat completion model",
			Category:    "LLM",
			Sources:     cli.EnvVars("JA_OPENAI_MODEL"),
			Destination: &x.openaiModel,
		},
		&cli.StringFlag{
			Name:        "openai-embedding-model",
			Usage:       "OpenAI embedding model",
			Category:    "LLM",
			Sources:     cli.EnvVars("JA_OPENAI_EMBEDDING_MODEL"),
			Destination: &x.openaiEmbeddingModel,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Category:    "LLM",
			Sources:     cli.EnvVars("JA_GEMINI_PROJECT"),
			Destination: &x.geminiProjectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Category:    "LLM",
			Value:       "us-central1",
			Sources:     cli.EnvVars("JA_GEMINI_LOCATION"),
			Destination: &x.geminiLocation,
		},
		&cli.IntFlag{
			Name:        "embedding-dimension",
			Usage:       "Embedding vector dimension",
			Category:    "LLM",
			Value:       model.EmbeddingDimension,
			Sources:     cli.EnvVars("JA_EMBEDDING_DIMENSION"),
			Destination: &x.dimension,
		},
	}
}

func (x LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", x.provider),
		slog.Int("openai-api-key.len", len(x.openaiAPIKey)),
		slog.String("gemini-project", x.geminiProjectID),
		slog.String("gemini-location", x.geminiLocation),
		slog.Int("dimension", x.dimension),
	)
}

// Dimension returns the configured embedding dimension.
func (x *LLM) Dimension() int {
	if x.dimension <= 0 {
		return model.EmbeddingDimension
	}
	return x.dimension
}

// Configure creates the LLM client for the configured provider.
func (x *LLM) Configure(ctx context.Context) (interfaces.LLMClient, error) {
	switch x.provider {
	case "openai", "":
		var opts []llm.OpenAIOption
		if x.openaiModel != "" {
			opts = append(opts, llm.WithModel(x.openaiModel))
		}
		if x.openaiEmbeddingModel != "" {
			opts = append(opts, llm.WithEmbeddingModel(x.openaiEmbeddingModel))
		}
		client, err := llm.NewOpenAI(x.openaiAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	case "gemini":
		if x.geminiProjectID == "" {
			return nil, goerr.New("gemini-project is required for the gemini provider")
		}
		geminiClient, err := gemini.New(ctx, x.geminiProjectID, x.geminiLocation)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		client, err := llm.NewGollem(geminiClient)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to wrap Gemini client")
		}
		return client, nil

	default:
		return nil, goerr.New("unknown LLM provider", goerr.V("provider", x.provider))
	}
}
