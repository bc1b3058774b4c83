package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/fatmaann/agent-judgement-assistant/pkg/cli/config"
	httpctrl "github.com/fatmaann/agent-judgement-assistant/pkg/controller/http"
	"github.com/fatmaann/agent-judgement-assistant/pkg/repository/memory"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/answer"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/chunk"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/ingest"
	"github.com/fatmaann/agent-judgement-assistant/pkg/service/retrieval"
	"github.com/fatmaann/agent-judgement-assistant/pkg/usecase"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/async"
	"github.com/fatmaann/agent-judgement-assistant/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var dispatchLimit int64
	var llmCfg config.LLM
	var storeCfg config.Store
	var slackCfg config.Slack
	var registryCfg config.Registry
	var pipelineCfg config.Pipeline

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("JA_ADDR"),
			Destination: &addr,
		},
		&cli.Int64Flag{
			Name:        "dispatch-limit",
			Usage:       "Maximum number of conversation turns processed concurrently",
			Value:       8,
			Sources:     cli.EnvVars("JA_DISPATCH_LIMIT"),
			Destination: &dispatchLimit,
		},
	}
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, storeCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, registryCfg.Flags()...)
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the Slack webhook server",
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

			if !slackCfg.IsConfigured() {
				return goerr.New("slack-bot-token and slack-signing-secret are required")
			}
			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack service")
			}

			splitter, err := chunk.NewSplitter(tuning.ChunkSize, tuning.ChunkOverlap)
			if err != nil {
				return goerr.Wrap(err, "failed to create splitter")
			}

			pipeline := ingest.New(fetcher, splitter, llmClient, store, tuning.StagingDir, llmCfg.Dimension())
			retriever := retrieval.New(llmClient, store,
				retrieval.WithTopK(tuning.TopK),
				retrieval.WithExpansions(tuning.QueryExpansions),
				retrieval.WithDimension(llmCfg.Dimension()),
			)
			composer := answer.New(llmClient)

			uc := usecase.New(memory.NewSessionRepository(), pipeline, retriever, composer)
			dispatcher := async.NewDispatcher(dispatchLimit)

			eventHandler := httpctrl.NewSlackEventHandler(uc, slackSvc, dispatcher)
			interactionHandler := httpctrl.NewSlackInteractionHandler(uc, slackSvc, dispatcher)

			server := &http.Server{
				Addr: addr,
				Handler: httpctrl.New(
					httpctrl.WithSlackWebhook(eventHandler, interactionHandler, slackCfg.SigningSecret()),
				),
				ReadHeaderTimeout: 30 * time.Second,
			}

			logging.Default().Info("configuration",
				"llm", llmCfg,
				"store", storeCfg,
				"slack", slackCfg,
				"registry", registryCfg,
				"pipeline", tuning,
			)

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
