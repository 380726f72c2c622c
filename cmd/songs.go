package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/topten/internal/controller"
	"github.com/desertthunder/topten/internal/formatter"
	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) newController() (*controller.Controller, error) {
	if r.songs == nil {
		return nil, fmt.Errorf("%w: song backend client not initialized", shared.ErrServiceUnavailable)
	}
	return controller.New(r.songs, r.logger), nil
}

// loadRanked fetches the user's list through a controller so invalid ranks are
// dropped the same way the TUI drops them.
func (r *Runner) loadRanked(ctx context.Context) ([]models.Song, error) {
	ctrl, err := r.newController()
	if err != nil {
		return nil, err
	}
	if err := ctrl.Load(ctx); err != nil {
		return nil, err
	}
	return ctrl.Entries(), nil
}

// List prints the user's ranked songs in rank order.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	songs, err := r.loadRanked(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Top Ten for %s (%d/%d)", r.config.Client.User, len(songs), models.ListSize))
	if len(songs) == 0 {
		return r.writePlain("No songs ranked yet. Try 'topten search \"song name\" --rank 1'\n")
	}

	for _, song := range songs {
		r.writePlain("%2d. %s - %s\n", song.Rank, song.Artist, song.Name)
	}
	if len(songs) < models.ListSize {
		r.writePlainln("Rank %d more to save", models.ListSize-len(songs))
	}
	return nil
}

// Search prints the candidates the backend returns for a track at a rank.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	track := cmd.StringArg("track")
	if strings.TrimSpace(track) == "" {
		return fmt.Errorf("%w: track name is required", shared.ErrMissingArgument)
	}

	ctrl, err := r.newController()
	if err != nil {
		return err
	}

	rank := int(cmd.Int("rank"))
	r.logger.Debug("searching songs", "track", track, "rank", rank)

	if err := ctrl.Search(ctx, track, rank); err != nil {
		return err
	}

	results := ctrl.Results()
	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q at #%d", ctrl.Query().Track, ctrl.Query().Rank))
	if notice := ctrl.Notice(); notice != "" {
		return r.writePlain("%s\n", notice)
	}
	for i, song := range results {
		r.writePlain("%2d. %s - %s\n", i+1, song.Artist, song.Name)
	}
	return nil
}

// Save replaces the user's list with the ten songs in a JSON file.
//
// The file holds a JSON array of songs with name, artist, album_cover_url and rank.
func (r *Runner) Save(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to a JSON file is required", shared.ErrMissingArgument)
	}

	songs, err := readSongs(path, os.Stdin)
	if err != nil {
		return err
	}

	ctrl, err := r.newController()
	if err != nil {
		return err
	}
	for _, song := range songs {
		if taken, ok := ctrl.Store().Get(song.Rank); ok {
			return fmt.Errorf("%w: rank %d is given to both %s and %s", shared.ErrInvalidInput, song.Rank, taken.Identity(), song.Identity())
		}
		if err := ctrl.Store().TryAdd(song); err != nil {
			return fmt.Errorf("%w: cannot rank %s at #%d: %w", shared.ErrInvalidInput, song.Identity(), song.Rank, err)
		}
	}

	if err := ctrl.Save(ctx); err != nil {
		return err
	}

	r.writePlain("✓ %s for %s\n", ctrl.Notice(), r.config.Client.User)
	return nil
}

func readSongs(path string, stdin io.Reader) ([]models.Song, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read songs: %w", err)
	}

	var songs []models.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("%w: failed to parse songs: %v", shared.ErrInvalidInput, err)
	}
	return songs, nil
}

// Leaderboard prints the aggregate ranking across all users.
func (r *Runner) Leaderboard(ctx context.Context, cmd *cli.Command) error {
	if r.songs == nil {
		return fmt.Errorf("%w: song backend client not initialized", shared.ErrServiceUnavailable)
	}

	rankings, err := r.songs.Leaderboard(ctx)
	if err != nil {
		return err
	}

	if limit := int(cmd.Int("limit")); limit > 0 && limit < len(rankings) {
		rankings = rankings[:limit]
	}

	switch format := strings.ToLower(cmd.String("format")); format {
	case "json":
		return r.writeJSON(rankings, true)
	case "csv":
		data, err := formatter.RankingsToCSV(rankings)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "txt", "text":
		r.writePlainHeader("Leaderboard")
		if len(rankings) == 0 {
			return r.writePlain("Nobody has saved a top ten yet\n")
		}
		return r.writePlain("%s", formatter.RankingsToText(rankings))
	default:
		return fmt.Errorf("%w: unsupported leaderboard format %q", shared.ErrInvalidArgument, format)
	}
}

// Export writes the user's ranked songs to a file.
//
// Markdown exports are written as a directory holding README.md and the top song's cover.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	songs, err := r.loadRanked(ctx)
	if err != nil {
		return err
	}
	list := formatter.List{Title: cmd.String("title"), Songs: songs}
	output := cmd.String("output")

	if format == formatter.FormatMarkdown {
		result, err := formatter.WriteMarkdownExport(list, output, r.output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d songs to %s\n", len(songs), result.Directory)
		for _, file := range result.Files {
			r.writePlain("  %s\n", file)
		}
		return nil
	}

	if output == "" {
		output = filepath.Join("topten", "topten."+string(format))
	}
	if err := formatter.WriteExport(list, format, output); err != nil {
		return err
	}

	r.writePlain("✓ Exported %d songs to %s\n", len(songs), output)
	return nil
}
