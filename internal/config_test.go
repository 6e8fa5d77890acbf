package internal

import (
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestAnkiConfig_EmptyURL(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Anki.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty URL should fail validation")
	}
}

func TestAnkiConfig_ZeroTimeout(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Anki.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero timeout should fail validation")
	}
}

func TestAnkiConfig_Query(t *testing.T) {
	cfg := NewDefaultConfig()
	got := cfg.Anki.Query(0)
	want := `"note:Pocket Article" "deck:Articles"`
	if got != want {
		t.Errorf("query = %s, want %s", got, want)
	}
}

func TestAnkiConfig_QueryWithEditedDays(t *testing.T) {
	cfg := NewDefaultConfig()
	got := cfg.Anki.Query(7)
	want := `"note:Pocket Article" "deck:Articles" edited:7`
	if got != want {
		t.Errorf("query = %s, want %s", got, want)
	}
}

func TestExportConfig_ZeroWorkers(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Export.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero workers should fail validation")
	}
}

func TestPandocConfig_EmptyBinary(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Pandoc.Binary = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty binary should fail validation")
	}
}
