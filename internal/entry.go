// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/aldenor/orgleaf/internal/anki"
	"github.com/aldenor/orgleaf/internal/exporter"
	"github.com/aldenor/orgleaf/internal/pandoc"
	"github.com/aldenor/orgleaf/internal/storage"
)

// Run performs one export with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.outputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. Logs go to stderr; stdout stays
	// clean for shell composition.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("ankiconnect_url", cfg.Anki.URL),
		slog.String("deck", cfg.Anki.Deck),
		slog.String("note_type", cfg.Anki.NoteType),
		slog.String("output_dir", app.outputDir),
		slog.Int("workers", cfg.Export.Workers),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure output directory exists.
	if err := os.MkdirAll(app.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	out, err := storage.NewDir(app.outputDir)
	if err != nil {
		return fmt.Errorf("init output dir: %w", err)
	}

	client := anki.NewClient(cfg.Anki.URL, &http.Client{Timeout: cfg.Anki.RequestTimeout()})
	conv := pandoc.New(cfg.Pandoc.Binary, cfg.Pandoc.Timeout())

	query := cfg.Anki.Query(app.editedDays)
	logger.Info("Searching for article notes", slog.String("query", query))

	noteIDs, err := client.FindNotes(ctx, query)
	if err != nil {
		return fmt.Errorf("find notes: %w", err)
	}
	logger.Info("Found article notes", slog.Int("count", len(noteIDs)))
	if len(noteIDs) == 0 {
		logger.Info("Nothing to export")
		return nil
	}

	infos, err := client.NotesInfo(ctx, noteIDs)
	if err != nil {
		return fmt.Errorf("fetch notes: %w", err)
	}

	exp := exporter.New(client, conv, out, cfg.Export.Workers, logger)
	sum, runErr := exp.Run(ctx, infos)

	if len(sum.EmptyTitles) > 0 {
		logger.Warn("Note IDs with no title - please fix",
			slog.Any("note_ids", sum.EmptyTitles))
	}
	logger.Info("Export finished",
		slog.Int("total", sum.Total),
		slog.Int("written", sum.Written),
		slog.Int("unchanged", sum.Unchanged),
		slog.Int("failed", sum.Failed))

	return runErr
}
