// Package render turns an article note into the content of its Org-mode
// file.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aldenor/orgleaf/internal/article"
)

const (
	orgDateLayout = "2006-01-02 Mon 15:04"
	orgDayLayout  = "2006-01-02"
)

// anchorRe matches an HTML anchor at the start of a URL field, quoted or
// unquoted href.
var anchorRe = regexp.MustCompile(`^<a href="?(.*?)"?>(.*)</a>`)

// Converter converts an HTML fragment to Org-mode markup.
type Converter interface {
	Convert(ctx context.Context, html string) (string, error)
}

// Rendered is the outcome of rendering one note.
type Rendered struct {
	Filename   string
	Content    []byte
	EmptyTitle bool
}

// Filename returns the file name a note exports to, derived from the note
// ID alone so renames of the article never orphan a file.
func Filename(noteID int64) string {
	return fmt.Sprintf("%d.org", noteID)
}

// fixupURL normalizes a URL field value: an HTML anchor becomes an Org
// link, anything else passes through trimmed.
func fixupURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	m := anchorRe.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	return fmt.Sprintf("[[%s][%s]]", m[1], m[2])
}

// resolvePair orders a given/resolved value pair into a primary value and
// an alternate. The alternate is dropped when it duplicates the primary.
func resolvePair(given, resolved string) (primary, alternate string) {
	primary, alternate = given, resolved
	if primary == "" {
		primary, alternate = alternate, ""
	}
	if primary == alternate {
		alternate = ""
	}
	return primary, alternate
}

func writeSection(b *bytes.Buffer, heading, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, "** %s\n\n%s\n\n", heading, text)
}

// Render produces the Org-mode file for a note. The three prose fields go
// through conv; URL and title fields are handled textually. An article
// whose title fields are both blank still renders, headed by its primary
// URL, with EmptyTitle set so the caller can report it.
func Render(ctx context.Context, conv Converter, note *article.Note, added time.Time) (*Rendered, error) {
	convertField := func(name string) (string, error) {
		org, err := conv.Convert(ctx, note.Field(name))
		if err != nil {
			return "", fmt.Errorf("render: note %d: convert %s: %w", note.ID, name, err)
		}
		return strings.TrimSpace(org), nil
	}

	personalNotes, err := convertField(article.FieldPersonalNotes)
	if err != nil {
		return nil, err
	}
	summary, err := convertField(article.FieldSummary)
	if err != nil {
		return nil, err
	}
	excerpt, err := convertField(article.FieldExcerpt)
	if err != nil {
		return nil, err
	}

	primaryURL, alternateURL := resolvePair(
		fixupURL(note.Field(article.FieldGivenURL)),
		fixupURL(note.Field(article.FieldResolvedURL)),
	)
	primaryTitle, alternateTitle := resolvePair(
		strings.TrimSpace(note.Field(article.FieldGivenTitle)),
		strings.TrimSpace(note.Field(article.FieldResolvedTitle)),
	)

	emptyTitle := primaryTitle == ""
	if emptyTitle {
		primaryTitle = primaryURL
	}

	var b bytes.Buffer
	b.WriteString("#+setupfile: common.setup\n")
	fmt.Fprintf(&b, "#+date: [%s]\n", added.Format(orgDateLayout))
	b.WriteString("#+comment: DO NOT EDIT - run ~orgleaf~ to re-export from Anki\n\n")
	fmt.Fprintf(&b, "* %s\n", primaryTitle)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: anki_article_%d\n", note.ID)
	if primaryURL != "" {
		fmt.Fprintf(&b, ":ROAM_REFS: %s", primaryURL)
		if alternateURL != "" {
			fmt.Fprintf(&b, " %s", alternateURL)
		}
		b.WriteString("\n")
	}
	if alternateTitle != "" {
		fmt.Fprintf(&b, ":ROAM_ALIASES: \"%s\"\n", alternateTitle)
	}
	b.WriteString(":END:\n\n")

	writeSection(&b, "Personal Notes", personalNotes)
	writeSection(&b, "Summary", summary)
	writeSection(&b, "Excerpt", excerpt)

	day := added.Format(orgDayLayout)
	fmt.Fprintf(&b, "[[roam:%s][%s]]\n", day, day)

	return &Rendered{
		Filename:   Filename(note.ID),
		Content:    b.Bytes(),
		EmptyTitle: emptyTitle,
	}, nil
}
