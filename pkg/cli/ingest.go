package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/fatmaann/agent-judgement-assistant/pkg/cli/config"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/chunk"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/ingest"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

func cmdIngest() *cli.Command {
	var caseInput string
	var llmCfg config.LLM
	var storeCfg config.Store
	var registryCfg config.Registry
	var pipelineCfg config.Pipeline

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "case",
			Usage:       "Case number, tax ID, or organization name",
			Required:    true,
			Destination: &caseInput,
		},
	}
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, storeCfg.Flags()...)
	flags = append(flags, registryCfg.Flags()...)
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:    "ingest",
		Aliases: []string{"i"},
		Usage:   "Fetch and index the documents of one case",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			tuning, err := pipelineCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load pipeline configuration")
			}

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}

			store, err := storeCfg.Configure(llmCfg.Dimension())
			if err != nil {
				return goerr.Wrap(err, "failed to configure document store")
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Default().Error("failed to close document store", "error", err.Error())
				}
			}()

			fetcher, err := registryCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure registry client")
			}

			splitter, err := chunk.NewSplitter(tuning.ChunkSize, tuning.ChunkOverlap)
			if err != nil {
				return goerr.Wrap(err, "failed to create splitter")
			}

			ref := model.ClassifyCase(caseInput)
			logging.Default().Info("ingesting case",
				"query", ref.Query,
				"caseType", ref.Type,
				"collection", ref.CollectionKey,
			)

			pipeline := ingest.New(fetcher, splitter, llmClient, store, tuning.StagingDir, llmCfg.Dimension())
			result, err := pipeline.Run(ctx, ref)
			if err != nil {
				return goerr.Wrap(err, "ingestion failed")
			}

			fmt.Printf("%s collection=%s documents=%d chunks=%d added=%d\n",
				color.GreenString("Ingestion finished:"),
				ref.CollectionKey, result.Documents, result.Chunks, result.Added,
			)
			return nil
		},
	}
}
