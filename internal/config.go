package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Anki   AnkiConfig        `yaml:"anki"`
	Pandoc PandocConfig      `yaml:"pandoc"`
	Export ExportConfig      `yaml:"export"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Anki.Validate(); err != nil {
		return err
	}
	if err := c.Pandoc.Validate(); err != nil {
		return err
	}
	return c.Export.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return nil
}

// AnkiConfig holds the AnkiConnect endpoint and the note selection.
type AnkiConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Deck           string `yaml:"deck"`
	NoteType       string `yaml:"note_type"`
}

// Validate validates the AnkiConnect configuration.
func (c *AnkiConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.Deck, validation.Required),
		validation.Field(&c.NoteType, validation.Required),
	)
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *AnkiConfig) RequestTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Query builds the note search query. editedDays > 0 restricts the search
// to notes modified in the past N days.
func (c *AnkiConfig) Query(editedDays int) string {
	query := fmt.Sprintf("%q %q", "note:"+c.NoteType, "deck:"+c.Deck)
	if editedDays > 0 {
		query += fmt.Sprintf(" edited:%d", editedDays)
	}
	return query
}

// PandocConfig holds the HTML-to-Org converter configuration.
type PandocConfig struct {
	Binary         string `yaml:"binary"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Validate validates the pandoc configuration.
func (c *PandocConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Binary, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
	)
}

// Timeout returns the per-conversion timeout as a duration.
func (c *PandocConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ExportConfig holds export run configuration.
type ExportConfig struct {
	Workers int `yaml:"workers"`
}

// Validate validates the export configuration.
func (c *ExportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Workers, validation.Required, validation.Min(1)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Anki: AnkiConfig{
			URL:            "http://localhost:8765",
			TimeoutSeconds: 3,
			Deck:           "Articles",
			NoteType:       "Pocket Article",
		},
		Pandoc: PandocConfig{
			Binary:         "pandoc",
			TimeoutSeconds: 5,
		},
		Export: ExportConfig{
			Workers: 50,
		},
	}
}
