// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the cookie database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
					&cli.BoolFlag{
						Name:  "status",
						Usage: "List migrations and when they were applied",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles the backend session
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the backend session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in through the backend's OAuth flow in a browser",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "OAuth provider registered on the backend (default: auth.provider)",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the sign-in URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "import",
				Usage: "Import session cookies from a browser \"Copy as cURL\" command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.AuthImport,
			},
			{
				Name:  "status",
				Usage: "Show the signed-in user, CSRF token and stored cookies",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "End the backend session and remove local credentials",
				Action: r.AuthLogout,
			},
			{
				Name:  "csrf",
				Usage: "Fetch a fresh CSRF token from the backend",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "show",
						Usage: "Print the full token",
					},
				},
				Action: r.AuthCSRF,
			},
		},
	}
}

// fixturesCommand lists upcoming fixtures
func fixturesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "fixtures",
		Aliases: []string{"fx"},
		Usage:   "List upcoming fixtures grouped by league",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "league",
				Aliases: []string{"l"},
				Usage:   "Only show one league (e.g. 39 Premier League, 140 La Liga)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv, md or json",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "Bypass the fixtures cache",
			},
		},
		Action: r.Fixtures,
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Write one file per league plus a manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory (default: fixtures_export_{epoch})",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, csv, md or json",
						Value:   "json",
					},
					&cli.IntSliceFlag{
						Name:    "league",
						Aliases: []string{"l"},
						Usage:   "Only export these leagues (repeatable)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers",
						Value: 4,
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Bypass the fixtures cache",
					},
				},
				Action: r.FixturesExport,
			},
		},
	}
}

// profileCommand shows the signed-in user
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show the signed-in user",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Profile,
	}
}

// metricsCommand handles telemetry
func metricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Telemetry events",
		Commands: []*cli.Command{
			{
				Name:  "send",
				Usage: "Record a metric event",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "event",
						Usage: "Event type: BUTTON_CLICK or LOGOUT",
						Value: "BUTTON_CLICK",
					},
					&cli.StringFlag{
						Name:     "trigger",
						Usage:    "Identifier of the element that fired the event",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "screen",
						Usage: "Screen the event came from",
						Value: "/",
					},
				},
				Action: r.MetricsSend,
			},
		},
	}
}

func apiSubcommand(name, usage string, action cli.ActionFunc, withData bool) *cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output compact JSON",
		},
	}
	if withData {
		flags = append(flags, &cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "JSON body to send",
		})
	}

	return &cli.Command{
		Name:  name,
		Usage: usage,
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags:  flags,
		Action: action,
	}
}

// apiCommand handles direct calls through the authenticated client
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct backend calls with session cookies and CSRF handling",
		Commands: []*cli.Command{
			apiSubcommand("get", "Direct GET, prints the response body", r.APIGet, false),
			apiSubcommand("post", "Direct POST with an optional JSON body", r.APIPost, true),
			apiSubcommand("put", "Direct PUT with an optional JSON body", r.APIPut, true),
			apiSubcommand("patch", "Direct PATCH with an optional JSON body", r.APIPatch, true),
			apiSubcommand("delete", "Direct DELETE", r.APIDelete, false),
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive fixtures and profile browser",
		Action:  r.TUI,
	}
}
