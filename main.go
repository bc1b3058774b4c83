package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/fatmaann/agent-judgement-assistant/pkg/cli"
)

var version = "dev"

func main() {
	// Local development convenience; a missing .env is not an error
	_ = godotenv.Load()

	if err := cli.Run(context.Background(), os.Args, version); err != nil {
		os.Exit(1)
	}
}
