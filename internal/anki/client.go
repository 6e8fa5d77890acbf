// Package anki implements a client for the AnkiConnect JSON-over-HTTP API.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Version is the AnkiConnect protocol version attached to every request.
const Version = 6

// DefaultURL is the address AnkiConnect listens on out of the box.
const DefaultURL = "http://localhost:8765"

// DefaultRequestTimeout bounds a single AnkiConnect round trip.
const DefaultRequestTimeout = 3 * time.Second

// Error is an error reported by the store itself: the response arrived but
// its error field was non-null.
type Error struct {
	Action  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("anki: %s: %s", e.Action, e.Message)
}

// NoteInfo is one full note record as returned by the notesInfo action.
type NoteInfo struct {
	NoteID    int64            `json:"noteId"`
	ModelName string           `json:"modelName"`
	Tags      []string         `json:"tags"`
	Fields    map[string]Field `json:"fields"`
	Cards     []int64          `json:"cards"`
}

// Field is a single note field value with its display order.
type Field struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// CardMod is a card's last modification time as returned by cardsModTime.
type CardMod struct {
	CardID int64 `json:"cardId"`
	Mod    int64 `json:"mod"`
}

// Client issues requests against a single AnkiConnect endpoint. It is safe
// for concurrent use.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a Client for the given endpoint URL. An empty url falls
// back to DefaultURL; a nil httpClient gets a default with
// DefaultRequestTimeout.
func NewClient(url string, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultRequestTimeout}
	}
	return &Client{url: url, httpClient: httpClient}
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke performs one AnkiConnect call and decodes its result into out (when
// out is non-nil). A non-null error field in the response is returned as an
// *Error. There are no retries: a failed call surfaces immediately.
func (c *Client) invoke(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(request{Action: action, Version: Version, Params: params})
	if err != nil {
		return fmt.Errorf("anki: %s: encode request: %w", action, err)
	}
	slog.Debug("anki: request", slog.String("action", action), slog.String("payload", string(body)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("anki: %s: build request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("anki: %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anki: %s: unexpected status %d", action, resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("anki: %s: decode response: %w", action, err)
	}
	if decoded.Error != nil {
		slog.Warn("anki: response error",
			slog.String("action", action),
			slog.String("payload", string(body)),
			slog.String("error", *decoded.Error))
		return &Error{Action: action, Message: *decoded.Error}
	}
	if out != nil {
		if err := json.Unmarshal(decoded.Result, out); err != nil {
			return fmt.Errorf("anki: %s: decode result: %w", action, err)
		}
	}
	return nil
}

// FindNotes returns the IDs of all notes matching an Anki search query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	params := struct {
		Query string `json:"query"`
	}{Query: query}
	var ids []int64
	if err := c.invoke(ctx, "findNotes", params, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// NotesInfo fetches the full records for the given note IDs.
func (c *Client) NotesInfo(ctx context.Context, noteIDs []int64) ([]NoteInfo, error) {
	params := struct {
		Notes []int64 `json:"notes"`
	}{Notes: noteIDs}
	var infos []NoteInfo
	if err := c.invoke(ctx, "notesInfo", params, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// CardsModTime fetches the last modification time of each given card.
func (c *Client) CardsModTime(ctx context.Context, cardIDs []int64) ([]CardMod, error) {
	params := struct {
		Cards []int64 `json:"cards"`
	}{Cards: cardIDs}
	var mods []CardMod
	if err := c.invoke(ctx, "cardsModTime", params, &mods); err != nil {
		return nil, err
	}
	return mods, nil
}

// UpdateNoteFields applies a partial field update to one note; fields not
// named in the map keep their current values. This is the only mutating
// action the exporter ever issues.
func (c *Client) UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error {
	type note struct {
		ID     int64             `json:"id"`
		Fields map[string]string `json:"fields"`
	}
	params := struct {
		Note note `json:"note"`
	}{Note: note{ID: noteID, Fields: fields}}
	return c.invoke(ctx, "updateNoteFields", params, nil)
}
