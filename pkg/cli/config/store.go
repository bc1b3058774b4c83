package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/repository/memory"
	"github.com/fatmaann/agent-judgement-assistant/pkg/repository/qdrant"
)

// Store holds configuration for the vector document store backend.
type Store struct {
	backend      string
	qdrantURL    string
	qdrantAPIKey string
}

// Flags returns CLI flags for store configuration
func (x *Store) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "store-backend",
			Usage:       "Document store backend (qdrant, memory)",
			Category:    "Store",
			Value:       "qdrant",
			Sources:     cli.EnvVars("JA_STORE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "qdrant-url",
			Usage:       "Qdrant server URL (e.g., https://example.qdrant.io:6334)",
			Category:    "Store",
			Sources:     cli.EnvVars("JA_QDRANT_URL"),
			Destination: &x.qdrantURL,
		},
		&cli.StringFlag{
			Name:        "qdrant-api-key",
			Usage:       "Qdrant API key",
			Category:    "Store",
			Sources:     cli.EnvVars("JA_QDRANT_API_KEY"),
			Destination: &x.qdrantAPIKey,
		},
	}
}

func (x Store) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("qdrant-url", x.qdrantURL),
		slog.Int("qdrant-api-key.len", len(x.qdrantAPIKey)),
	)
}

// Configure creates the document store for the configured backend.
func (x *Store) Configure(dimension int) (interfaces.DocumentStore, error) {
	switch x.backend {
	case "qdrant", "":
		store, err := qdrant.New(qdrant.Config{
			URL:       x.qdrantURL,
			APIKey:    x.qdrantAPIKey,
			Dimension: dimension,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create qdrant store")
		}
		return store, nil

	case "memory":
		return memory.NewDocumentStore(), nil

	default:
		return nil, goerr.New("unknown store backend", goerr.V("backend", x.backend))
	}
}
