package pandoc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeBinary writes a shell script standing in for pandoc and returns its
// path.
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-pandoc")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	return path
}

func TestConvert_PassesInputToBinary(t *testing.T) {
	conv := New(fakeBinary(t, "exec cat\n"), time.Second)
	got, err := conv.Convert(context.Background(), "<p>hi</p>")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got != "<p>hi</p>" {
		t.Errorf("output = %q", got)
	}
}

func TestConvert_InvokesHTMLToOrgFlags(t *testing.T) {
	conv := New(fakeBinary(t, `printf '%s ' "$@"`+"\n"), time.Second)
	got, err := conv.Convert(context.Background(), "")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(got, "-fhtml") || !strings.Contains(got, "-torg") {
		t.Errorf("args = %q, want -fhtml and -torg", got)
	}
}

func TestConvert_Timeout(t *testing.T) {
	conv := New(fakeBinary(t, "exec sleep 5\n"), 50*time.Millisecond)
	_, err := conv.Convert(context.Background(), "x")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestConvert_ExitError(t *testing.T) {
	conv := New(fakeBinary(t, "echo bad input >&2\nexit 64\n"), time.Second)
	_, err := conv.Convert(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %T, want *ExitError", err)
	}
	if exitErr.Code != 64 {
		t.Errorf("code = %d, want 64", exitErr.Code)
	}
	if exitErr.Stderr != "bad input" {
		t.Errorf("stderr = %q", exitErr.Stderr)
	}
}

func TestConvert_MissingBinary(t *testing.T) {
	conv := New("orgleaf-missing-pandoc-binary", time.Second)
	_, err := conv.Convert(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not-found message", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	conv := New("", 0)
	if conv.bin != DefaultBinary {
		t.Errorf("bin = %q, want %q", conv.bin, DefaultBinary)
	}
	if conv.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", conv.timeout, DefaultTimeout)
	}
}
