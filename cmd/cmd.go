// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive ranking.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive top ten editor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal (default: log.file from config)",
			},
		},
		Action: r.TUI,
	}
}

// listCommand prints the user's ranked songs.
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Show your ranked songs",
		Flags:   jsonFlags(),
		Action:  r.List,
	}
}

// searchCommand queries the backend for candidates at a rank.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search for songs to rank",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "track",
			},
		},
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "rank",
				Aliases: []string{"r"},
				Usage:   "Rank (1-10) the song is searched for",
				Value:   1,
			},
		}, jsonFlags()...),
		Action: r.Search,
	}
}

// saveCommand submits a complete ranked list from a JSON file.
func saveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Replace your top ten with the songs in a JSON file (\"-\" for stdin)",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Action: r.Save,
	}
}

// leaderboardCommand prints the aggregate ranking across users.
func leaderboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "leaderboard",
		Aliases: []string{"lb"},
		Usage:   "Show the aggregate ranking across all users",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (txt, csv, json)",
				Value:   "txt",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of songs to print (0 for all)",
			},
		},
		Action: r.Leaderboard,
	}
}

// exportCommand writes the user's ranked songs to a file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export your top ten as csv, markdown, txt or json",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (csv, markdown, txt, json)",
				Value:   "markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file (directory for markdown)",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Title of the exported list",
				Value: "My Top Ten",
			},
		},
		Action: r.Export,
	}
}

// serveCommand runs the song backend.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the song backend (songs, search and leaderboard endpoints)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Address to bind (default: server.host from config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (default: server.port from config)",
			},
		},
		Action: r.Serve,
	}
}

// archiveCommand exports every user's list from the backend database.
func archiveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "Export every saved top ten from the backend database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (csv, markdown, txt, json)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: topten_archive_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 4,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Exports started per second",
				Value: 5,
			},
		},
		Action: r.Archive,
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show the applied migration version",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
			{
				Name:  "config",
				Usage: "Write a config file from the built-in template",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
