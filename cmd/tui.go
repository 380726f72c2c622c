package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/topten/internal/shared"
	"github.com/desertthunder/topten/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive top ten editor.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.songs == nil {
		return fmt.Errorf("%w: song backend client not initialized", shared.ErrServiceUnavailable)
	}

	logFile := cmd.String("log-file")
	if logFile == "" {
		logFile = r.config.Log.File
	}
	if logFile == "" {
		logFile = "./tmp/topten-tui.log"
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.songs, fileLogger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
