// Package article defines the article note model the exporter works on.
package article

import (
	"fmt"
	"strings"

	"github.com/aldenor/orgleaf/internal/anki"
)

// Field names of the article note type.
const (
	FieldTimeAdded     = "time_added"
	FieldGivenTitle    = "given_title"
	FieldResolvedTitle = "resolved_title"
	FieldGivenURL      = "given_url"
	FieldResolvedURL   = "resolved_url"
	FieldPersonalNotes = "personal_notes"
	FieldSummary       = "summary"
	FieldExcerpt       = "excerpt"
)

// RequiredFields must all be present on a note record for it to be
// exportable. Values may be empty; the keys may not be missing.
var RequiredFields = []string{
	FieldTimeAdded,
	FieldGivenTitle,
	FieldResolvedTitle,
	FieldGivenURL,
	FieldResolvedURL,
	FieldPersonalNotes,
	FieldSummary,
	FieldExcerpt,
}

// MissingFieldsError reports a note record that lacks one or more of the
// required article fields.
type MissingFieldsError struct {
	NoteID int64
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("article: note %d: missing fields: %s", e.NoteID, strings.Join(e.Fields, ", "))
}

// Note is an article note reduced to what rendering needs: its identity,
// its field values, and the cards that carry its modification times.
type Note struct {
	ID     int64
	Fields map[string]string
	Cards  []int64
}

// FromNoteInfo builds a Note from a raw store record, validating that every
// required field key is present. Missing keys yield a *MissingFieldsError.
func FromNoteInfo(info anki.NoteInfo) (*Note, error) {
	var missing []string
	fields := make(map[string]string, len(RequiredFields))
	for _, name := range RequiredFields {
		f, ok := info.Fields[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		fields[name] = f.Value
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{NoteID: info.NoteID, Fields: missing}
	}
	return &Note{ID: info.NoteID, Fields: fields, Cards: info.Cards}, nil
}

// Field returns the value of the named field, or "" when absent.
func (n *Note) Field(name string) string {
	return n.Fields[name]
}
