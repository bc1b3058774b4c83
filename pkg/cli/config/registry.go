package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/interfaces"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/registry"
)

// Registry holds configuration for the case document retrieval service.
type Registry struct {
	baseURL      string
	lookbackDays int
}

func (x *Registry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "registry-url",
			Usage:       "Base URL of the document retrieval service",
			Category:    "Registry",
			Sources:     cli.EnvVars("JA_REGISTRY_URL"),
			Destination: &x.baseURL,
		},
		&cli.IntFlag{
			Name:        "registry-lookback-days",
			Usage:       "How many days back the registry search goes",
			Category:    "Registry",
			Value:       registry.DefaultLookbackDays,
			Sources:     cli.EnvVars("JA_REGISTRY_LOOKBACK_DAYS"),
			Destination: &x.lookbackDays,
		},
	}
}

func (x Registry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", x.baseURL),
		slog.Int("lookback-days", x.lookbackDays),
	)
}

// Configure creates the document fetcher client.
func (x *Registry) Configure() (interfaces.DocumentFetcher, error) {
	if x.baseURL == "" {
		return nil, goerr.New("registry-url is required")
	}
	return registry.New(x.baseURL, registry.WithLookbackDays(x.lookbackDays))
}
