package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/topten/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	app := newApp(NewRunner(RunnerOpts{Logger: logger}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument):
			logger.Error("invalid usage", "error", err)
			stop()
			os.Exit(2)
		case errors.Is(err, context.Canceled):
			logger.Warn("interrupted")
		default:
			stop()
			logger.Fatalf("application error: %v", err)
		}
	}
}

func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:    "topten",
		Usage:   "Rank your ten favorite songs",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User name sent to the backend (default: client.user from config)",
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Backend base URL (default: client.base_url from config)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before:   runner.Before,
		Commands: runner.register(),
	}
}
