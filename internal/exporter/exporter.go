// Package exporter drives the export run: it fans note records out to a
// bounded pool of workers, each of which renders one note and writes its
// file.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aldenor/orgleaf/internal/anki"
	"github.com/aldenor/orgleaf/internal/article"
	"github.com/aldenor/orgleaf/internal/backfill"
	"github.com/aldenor/orgleaf/internal/render"
	"github.com/aldenor/orgleaf/internal/storage"
)

// DefaultWorkers is how many notes are exported concurrently by default.
const DefaultWorkers = 50

// Summary is the outcome of one export run.
type Summary struct {
	Total       int
	Written     int
	Unchanged   int
	Failed      int
	EmptyTitles []int64
}

// Exporter exports article notes to Org-mode files.
type Exporter struct {
	client  backfill.CardClient
	conv    render.Converter
	out     *storage.Dir
	workers int
	logger  *slog.Logger
}

// New creates an Exporter. workers <= 0 falls back to DefaultWorkers; a nil
// logger falls back to slog.Default().
func New(client backfill.CardClient, conv render.Converter, out *storage.Dir, workers int, logger *slog.Logger) *Exporter {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{client: client, conv: conv, out: out, workers: workers, logger: logger}
}

// Run exports every given note, at most e.workers at a time. A note that
// fails is counted and logged without disturbing its siblings; every note
// gets its attempt. The returned Summary is always populated, and the error
// is non-nil when any note failed.
func (e *Exporter) Run(ctx context.Context, infos []anki.NoteInfo) (*Summary, error) {
	// Process in random order: an interrupted run then leaves no skewed,
	// time-clustered gap in the output.
	notes := make([]anki.NoteInfo, len(infos))
	copy(notes, infos)
	rand.Shuffle(len(notes), func(i, j int) { notes[i], notes[j] = notes[j], notes[i] })

	total := len(notes)
	sum := &Summary{Total: total}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, info := range notes {
		i, info := i, info
		g.Go(func() error {
			if err := e.exportOne(ctx, i+1, total, info, sum, &mu); err != nil {
				e.logger.Error("exporter: note failed",
					slog.Int("index", i+1),
					slog.Int("total", total),
					slog.Int64("note_id", info.NoteID),
					slog.String("error", err.Error()))
				mu.Lock()
				sum.Failed++
				mu.Unlock()
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sum, fmt.Errorf("exporter: %d of %d notes failed: %w", sum.Failed, sum.Total, err)
	}
	return sum, nil
}

func (e *Exporter) exportOne(ctx context.Context, index, total int, info anki.NoteInfo, sum *Summary, mu *sync.Mutex) error {
	note, err := article.FromNoteInfo(info)
	if err != nil {
		return err
	}

	file := e.out.Path(render.Filename(note.ID))
	e.logger.Info("exporter: exporting note",
		slog.Int("index", index),
		slog.Int("total", total),
		slog.Int64("note_id", note.ID),
		slog.String("file", file))

	added, err := backfill.EnsureTimeAdded(ctx, e.client, note)
	if err != nil {
		return err
	}

	rendered, err := render.Render(ctx, e.conv, note, added)
	if err != nil {
		return err
	}

	if rendered.EmptyTitle {
		e.logger.Warn("exporter: title is empty - please fix!", slog.Int64("note_id", note.ID))
		mu.Lock()
		sum.EmptyTitles = append(sum.EmptyTitles, note.ID)
		mu.Unlock()
	}

	outcome, err := e.out.WriteIfChanged(rendered.Filename, rendered.Content)
	if err != nil {
		return fmt.Errorf("exporter: note %d: %w", note.ID, err)
	}

	mu.Lock()
	switch outcome {
	case storage.Written:
		sum.Written++
	default:
		sum.Unchanged++
	}
	mu.Unlock()

	e.logger.Info("exporter: note exported",
		slog.Int64("note_id", note.ID),
		slog.String("file", file),
		slog.String("outcome", outcome.String()))
	return nil
}
