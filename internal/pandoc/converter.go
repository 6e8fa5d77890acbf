// Package pandoc shells out to the pandoc binary to convert HTML fragments
// to Org-mode markup.
package pandoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultBinary is the pandoc executable resolved via PATH.
const DefaultBinary = "pandoc"

// DefaultTimeout bounds a single conversion.
const DefaultTimeout = 5 * time.Second

// ErrTimeout marks a conversion that was killed for exceeding the timeout.
var ErrTimeout = errors.New("pandoc: conversion timed out")

// ExitError reports a pandoc run that finished with a non-zero exit code.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("pandoc: exit status %d", e.Code)
	}
	return fmt.Sprintf("pandoc: exit status %d: %s", e.Code, e.Stderr)
}

// Converter runs pandoc, one process per conversion. It is safe for
// concurrent use.
type Converter struct {
	bin     string
	timeout time.Duration
}

// New creates a Converter. Zero values fall back to DefaultBinary and
// DefaultTimeout.
func New(bin string, timeout time.Duration) *Converter {
	if bin == "" {
		bin = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Converter{bin: bin, timeout: timeout}
}

// Convert feeds html to pandoc on stdin and returns the Org-mode output.
// Each call spawns a fresh process bounded by the converter's timeout.
func (c *Converter) Convert(ctx context.Context, html string) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(tctx, c.bin, "-fhtml", "-torg")
	cmd.Stdin = strings.NewReader(html)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if tctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", fmt.Errorf("pandoc: %s not found, is it installed?: %w", c.bin, err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExitError{
				Code:   exitErr.ExitCode(),
				Stderr: strings.TrimSpace(stderr.String()),
			}
		}
		return "", fmt.Errorf("pandoc: run %s: %w", c.bin, err)
	}

	return stdout.String(), nil
}
