package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/aldenor/orgleaf/internal"
	pkgconfig "github.com/aldenor/orgleaf/pkg/config"
)

// defaultConfigPath is consulted when --config is not given; unlike an
// explicit --config it is allowed to be absent.
const defaultConfigPath = "orgleaf.yaml"

func run(ctx context.Context, cmd *cli.Command) error {
	outputDir := cmd.Args().First()
	if outputDir == "" {
		return fmt.Errorf("output directory argument is required")
	}

	cfg := internal.NewDefaultConfig()
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := pkgconfig.LoadIfPresent(defaultConfigPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("ankiconnect-url") {
		cfg.Anki.URL = cmd.String("ankiconnect-url")
	}
	if cmd.IsSet("log-level") {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
		}
		cfg.App.LogLevel = lvl
	}
	if cmd.Bool("debug") {
		cfg.App.LogLevel = slog.LevelDebug
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithOutputDir(outputDir),
		internal.WithEditedDays(int(cmd.Int("edited"))),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "orgleaf",
		Usage:     "Export article notes in Anki as individual Org-mode files to a directory",
		ArgsUsage: "<output-dir>",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigPath,
				Sources:     cli.EnvVars("ORGLEAF_CONFIG_FILE"),
			},
			&cli.IntFlag{
				Name:  "edited",
				Usage: "Only examine notes modified in the past N days",
			},
			&cli.StringFlag{
				Name:        "ankiconnect-url",
				Usage:       "URL of the AnkiConnect endpoint",
				DefaultText: "http://localhost:8765",
				Sources:     cli.EnvVars("ORGLEAF_ANKICONNECT_URL"),
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				DefaultText: "info",
				Sources:     cli.EnvVars("ORGLEAF_LOGLEVEL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Shorthand for --log-level debug",
				Sources: cli.EnvVars("ORGLEAF_DEBUG"),
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
