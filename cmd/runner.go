package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/topten/internal/services"
	"github.com/desertthunder/topten/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	songs      services.SongService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is resolved from the --config flag before any command runs, and
// a nil Songs is replaced by an [services.APIService] built from that config.
type RunnerOpts struct {
	Config     *shared.Config
	Songs      services.SongService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		songs:      opts.Songs,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// Before resolves configuration and the song backend client ahead of every command.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		config, err := shared.ResolveConfig(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if cmd.IsSet("user") {
		r.config.Client.User = cmd.String("user")
	}
	if cmd.IsSet("base-url") {
		r.config.Client.BaseURL = cmd.String("base-url")
	}

	level := r.config.Log.Level
	if cmd.Bool("verbose") {
		level = "debug"
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))

	if r.songs == nil {
		if r.httpClient == nil {
			r.httpClient = &http.Client{Timeout: r.config.Client.Timeout()}
		}
		r.songs = services.NewAPIService(r.config.Client.BaseURL, r.config.Client.User, r.httpClient)
	}

	r.logger.Debug("configuration resolved", "base_url", r.config.Client.BaseURL, "user", r.config.Client.User)
	return ctx, nil
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		tuiCommand, listCommand, searchCommand, saveCommand, leaderboardCommand, exportCommand, archiveCommand, serveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
