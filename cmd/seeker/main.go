package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	searchFlags := []cli.Flag{
		&cli.StringFlag{Name: "term", Aliases: []string{"t"}, Usage: "Search term (defaults to search.term)"},
		&cli.StringFlag{Name: "alt-term", Usage: "Alternate term sent to Google (defaults to search.alt_term)"},
		&cli.StringFlag{Name: "location", Aliases: []string{"L"}, Usage: "Country, alias or \"remote\" (defaults to search.location)"},
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "Listings wanted, split across a remote plan"},
		&cli.IntFlag{Name: "max-age-hours", Usage: "Provider freshness bound in hours"},
		&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "Comma separated words; title or description must contain one"},
		&cli.BoolFlag{Name: "save", Aliases: []string{"s"}, Usage: "Persist approved listings (defaults to search.save)"},
	}

	return &cli.App{
		Name:  "seeker",
		Usage: "Search, classify and deduplicate job listings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config.yaml",
				EnvVars: []string{"SEEKER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override log_level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run one search and print the approved listings",
				Action: runCommand,
				Flags: append(searchFlags,
					&cli.BoolFlag{Name: "json", Usage: "Print approved listings as JSON"},
				),
			},
			{
				Name:   "watch",
				Usage:  "Repeat the search every schedule.interval",
				Action: watchCommand,
				Flags: append(searchFlags,
					&cli.DurationFlag{Name: "interval", Usage: "Override schedule.interval"},
				),
			},
			{
				Name:   "list",
				Usage:  "List stored listings neither applied to nor rejected",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum rows", Value: 50},
				},
			},
			{
				Name:      "apply",
				Usage:     "Mark stored listings as applied",
				ArgsUsage: "ID [ID...]",
				Action:    applyCommand,
			},
			{
				Name:      "reject",
				Usage:     "Reject stored listings for good, by id or by link",
				ArgsUsage: "[ID...]",
				Action:    rejectCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "link", Usage: "Reject by link (repeatable)"},
				},
			},
			{
				Name:   "migrate",
				Usage:  "Create the listings and runs tables",
				Action: migrateCommand,
			},
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	// stdout carries command output
	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
