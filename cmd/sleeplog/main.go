package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/bootstrap"
	"github.com/yourname/sleeplog/internal/cli"
	"github.com/yourname/sleeplog/internal/config"
)

func main() {
	cfg := config.Load()
	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCommandError)
	}

	root := cli.NewRootCommand(&cli.RootOptions{
		Open: func(ctx context.Context) (*bootstrap.App, error) {
			return bootstrap.Open(ctx, cfg, logger)
		},
	})
	err = root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
