// Package backfill resolves an article's added-at timestamp, deriving and
// persisting one when the note never recorded it.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aldenor/orgleaf/internal/anki"
	"github.com/aldenor/orgleaf/internal/article"
)

// ErrMalformedTimestamp marks a time_added value that is present but not a
// parseable Unix timestamp. The note stays untouched in that case.
var ErrMalformedTimestamp = errors.New("backfill: malformed time_added value")

// CardClient is the slice of the store API the backfill needs.
type CardClient interface {
	CardsModTime(ctx context.Context, cardIDs []int64) ([]anki.CardMod, error)
	UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error
}

// EnsureTimeAdded returns the note's added-at time. When the time_added
// field is empty it derives the earliest card modification time, writes it
// back to the store, mirrors it into the local note, and returns it, so a
// repeat call short-circuits on the stored value.
func EnsureTimeAdded(ctx context.Context, client CardClient, note *article.Note) (time.Time, error) {
	raw := strings.TrimSpace(note.Field(article.FieldTimeAdded))
	if raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: note %d: %q", ErrMalformedTimestamp, note.ID, raw)
		}
		return time.Unix(secs, 0), nil
	}

	if len(note.Cards) == 0 {
		return time.Time{}, fmt.Errorf("backfill: note %d: no cards to derive time_added from", note.ID)
	}

	mods, err := client.CardsModTime(ctx, note.Cards)
	if err != nil {
		return time.Time{}, fmt.Errorf("backfill: note %d: %w", note.ID, err)
	}
	if len(mods) == 0 {
		return time.Time{}, fmt.Errorf("backfill: note %d: no modification times for cards", note.ID)
	}

	min := mods[0].Mod
	for _, m := range mods[1:] {
		if m.Mod < min {
			min = m.Mod
		}
	}

	value := strconv.FormatInt(min, 10)
	slog.Info("backfill: writing derived time_added",
		slog.Int64("note_id", note.ID),
		slog.String("time_added", value))
	if err := client.UpdateNoteFields(ctx, note.ID, map[string]string{article.FieldTimeAdded: value}); err != nil {
		return time.Time{}, fmt.Errorf("backfill: note %d: %w", note.ID, err)
	}
	note.Fields[article.FieldTimeAdded] = value

	return time.Unix(min, 0), nil
}
