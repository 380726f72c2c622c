package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/topten/internal/server"
	"github.com/desertthunder/topten/internal/services"
	"github.com/desertthunder/topten/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the song backend until the process is interrupted.
//
// Without Spotify credentials the backend still serves songs and the
// leaderboard, and answers searches with 503.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var searcher services.TrackSearcher
	spotify, err := services.NewSpotifyService(ctx, r.config.Credentials.Spotify, r.config.Spotify, r.logger)
	switch {
	case err == nil:
		searcher = spotify
	case errors.Is(err, shared.ErrMissingCredentials):
		r.logger.Warn("spotify credentials not configured, search is disabled")
	default:
		return fmt.Errorf("failed to create spotify service: %w", err)
	}

	srv := server.New(cfg, db, searcher, r.logger)
	return srv.ListenAndServe(ctx)
}
