package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/fatmaann/agent-judgement-assistant/pkg/cli/config"
	"github.com/fatmaann/agent-judgement-assistant/pkg/domain/model"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/answer"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/retrieval"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

func cmdAsk() *cli.Command {
	var caseInput string
	var question string
	var llmCfg config.LLM
	var storeCfg config.Store
	var pipelineCfg config.Pipeline

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "case",
			Usage:       "Case number, tax ID, or organization name",
			Required:    true,
			Destination: &caseInput,
		},
		&cli.StringFlag{
			Name:        "question",
			Aliases:     []string{"q"},
			Usage:       "Question about the case documents",
			Required:    true,
			Destination: &question,
		},
	}
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, storeCfg.Flags()...)
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:    "ask",
		Aliases: []string{"a"},
		Usage:   "Answer one question about an already indexed case",
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

			ref := model.ClassifyCase(caseInput)
			retriever := retrieval.New(llmClient, store,
				retrieval.WithTopK(tuning.TopK),
				retrieval.WithExpansions(tuning.QueryExpansions),
				retrieval.WithDimension(llmCfg.Dimension()),
			)

			rctx, err := retriever.Retrieve(ctx, ref.CollectionKey, question)
			if err != nil {
				return goerr.Wrap(err, "retrieval failed")
			}

			text, err := answer.New(llmClient).Compose(ctx, question, rctx)
			if err != nil {
				return goerr.Wrap(err, "answer synthesis failed")
			}

			fmt.Printf("%s %s\n\n%s\n", color.CyanString("Case:"), ref.CollectionKey, text)
			return nil
		},
	}
}
