package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/fatmaann/agent-judgement-assistant/pkg/service/chunk"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/retrieval"
)

// PipelineConfig tunes chunking and retrieval. It is loaded from an optional
// TOML file; absent fields keep their defaults.
type PipelineConfig struct {
	ChunkSize       int    `toml:"chunk_size"`
	ChunkOverlap    int    `toml:"chunk_overlap"`
	TopK            int    `toml:"top_k"`
	QueryExpansions int    `toml:"query_expansions"`
	StagingDir      string `toml:"staging_dir"`
}

// DefaultPipelineConfig returns the built-in tuning values.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ChunkSize:       chunk.DefaultChunkSize,
		ChunkOverlap:    chunk.DefaultChunkOverlap,
		TopK:            retrieval.DefaultTopK,
		QueryExpansions: retrieval.DefaultExpansions,
		StagingDir:      os.TempDir(),
	}
}

// Validate checks if the PipelineConfig is valid
func (p *PipelineConfig) Validate() error {
	if p.ChunkSize <= 0 {
		return goerr.New("chunk_size must be positive", goerr.V("chunk_size", p.ChunkSize))
	}
	if p.ChunkOverlap < 0 {
		return goerr.New("chunk_overlap must not be negative", goerr.V("chunk_overlap", p.ChunkOverlap))
	}
	if p.ChunkOverlap >= p.ChunkSize {
		return goerr.New("chunk_overlap must be smaller than chunk_size",
			goerr.V("chunk_size", p.ChunkSize), goerr.V("chunk_overlap", p.ChunkOverlap))
	}
	if p.TopK <= 0 {
		return goerr.New("top_k must be positive", goerr.V("top_k", p.TopK))
	}
	if p.QueryExpansions < 0 {
		return goerr.New("query_expansions must not be negative", goerr.V("query_expansions", p.QueryExpansions))
	}
	if p.StagingDir == "" {
		return goerr.New("staging_dir is required")
	}
	return nil
}

func (p PipelineConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("chunk-size", p.ChunkSize),
		slog.Int("chunk-overlap", p.ChunkOverlap),
		slog.Int("top-k", p.TopK),
		slog.Int("query-expansions", p.QueryExpansions),
		slog.String("staging-dir", p.StagingDir),
	)
}

// LoadPipelineConfiguration loads pipeline tuning from a TOML file. Fields
// not present in the file keep the defaults.
func LoadPipelineConfiguration(path string) (*PipelineConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read pipeline config file", goerr.V("path", path))
	}

	config := DefaultPipelineConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "pipeline config validation failed", goerr.V("path", path))
	}

	return &config, nil
}

// Pipeline binds the pipeline config file flag and resolves the effective
// configuration.
type Pipeline struct {
	configPath string
}

func (x *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "pipeline-config",
			Usage:       "Path to a TOML file tuning chunking and retrieval",
			Category:    "Pipeline",
			Sources:     cli.EnvVars("JA_PIPELINE_CONFIG"),
			Destination: &x.configPath,
		},
	}
}

// Configure resolves the pipeline configuration: the TOML file when given,
// the defaults otherwise.
func (x *Pipeline) Configure() (*PipelineConfig, error) {
	if x.configPath == "" {
		config := DefaultPipelineConfig()
		return &config, nil
	}
	return LoadPipelineConfiguration(x.configPath)
}
