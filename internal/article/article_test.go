package article

import (
	"errors"
	"testing"

	"github.com/aldenor/orgleaf/internal/anki"
)

func recordWithFields(names ...string) anki.NoteInfo {
	fields := make(map[string]anki.Field, len(names))
	for i, name := range names {
		fields[name] = anki.Field{Value: "v-" + name, Order: i}
	}
	return anki.NoteInfo{
		NoteID: 1502298033753,
		Fields: fields,
		Cards:  []int64{1498938915662},
	}
}

func TestFromNoteInfo_AllFields(t *testing.T) {
	note, err := FromNoteInfo(recordWithFields(RequiredFields...))
	if err != nil {
		t.Fatalf("FromNoteInfo: %v", err)
	}
	if note.ID != 1502298033753 {
		t.Errorf("id = %d", note.ID)
	}
	if got := note.Field(FieldGivenTitle); got != "v-given_title" {
		t.Errorf("given_title = %q", got)
	}
	if len(note.Cards) != 1 || note.Cards[0] != 1498938915662 {
		t.Errorf("cards = %v", note.Cards)
	}
}

func TestFromNoteInfo_MissingFields(t *testing.T) {
	info := recordWithFields(FieldTimeAdded, FieldGivenTitle, FieldResolvedTitle, FieldGivenURL, FieldResolvedURL, FieldSummary)

	_, err := FromNoteInfo(info)
	if err == nil {
		t.Fatal("expected error")
	}
	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %T, want *MissingFieldsError", err)
	}
	if missing.NoteID != 1502298033753 {
		t.Errorf("note id = %d", missing.NoteID)
	}
	if len(missing.Fields) != 2 {
		t.Errorf("missing = %v, want personal_notes and excerpt", missing.Fields)
	}
}

func TestField_Absent(t *testing.T) {
	note := &Note{Fields: map[string]string{}}
	if got := note.Field("nope"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestIgnoresExtraFields(t *testing.T) {
	info := recordWithFields(RequiredFields...)
	info.Fields["item_id"] = anki.Field{Value: "12345"}

	note, err := FromNoteInfo(info)
	if err != nil {
		t.Fatalf("FromNoteInfo: %v", err)
	}
	if _, ok := note.Fields["item_id"]; ok {
		t.Error("extra field should not be carried over")
	}
}
