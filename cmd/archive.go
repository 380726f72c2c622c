package main

import (
	"context"
	"sync"

	"github.com/desertthunder/topten/internal/formatter"
	"github.com/desertthunder/topten/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Archive exports every user's saved top ten straight from the backend database.
func (r *Runner) Archive(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	archiver := tasks.NewArchiver(tasks.NewRepositorySource(db), r.logger)
	opts := tasks.ArchiveOpts{
		Format:     formatter.Format(cmd.String("format")),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}

	prog := make(chan tasks.ProgressUpdate, 32)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range prog {
			r.writePlain("[%s %d/%d] %s\n", update.Phase, update.Step, update.Total, update.Message)
		}
	}()

	result, err := archiver.Archive(ctx, prog, opts)
	close(prog)
	wg.Wait()
	if err != nil {
		return err
	}

	r.writePlainHeader("Archive Complete")
	r.writePlain("Users:     %d\n", result.TotalUsers)
	r.writePlain("Exported:  %d\n", result.SuccessfulExports)
	r.writePlain("Failed:    %d\n", result.FailedExports)
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Manifest:  %s\n", result.ManifestPath)
	return nil
}
