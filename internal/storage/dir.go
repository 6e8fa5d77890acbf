// Package storage writes exported files into the output directory,
// skipping files whose content is already current.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Exported files are read-only: they are regenerated from the store, never
// edited in place.
const readOnlyMode = 0o444

// Outcome says what WriteIfChanged did to a file.
type Outcome int

const (
	// Unchanged means the file already held the exact content; nothing in
	// the file system was touched.
	Unchanged Outcome = iota
	// Written means the file was created or its content replaced.
	Written
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Written:
		return "written"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Dir is a flat output directory of exported files.
type Dir struct {
	root string // absolute path to the output directory
}

// NewDir creates a Dir rooted at the given directory. The directory must
// already exist.
func NewDir(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &Dir{root: abs}, nil
}

// Path returns the absolute path a file name maps to, for logging.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, name)
}

// WriteIfChanged writes content to the named file unless the file already
// holds exactly that content, in which case nothing is touched and its
// modification time survives. Writes go through a temp file: write → fsync
// → chmod read-only → rename, so a crash never leaves a partial or
// writable file behind.
func (d *Dir) WriteIfChanged(name string, content []byte) (Outcome, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		return Unchanged, fmt.Errorf("storage: file name contains separator: %s", name)
	}
	path := filepath.Join(d.root, name)

	old, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Unchanged, fmt.Errorf("storage: read %s: %w", name, err)
	}
	if err == nil && bytes.Equal(old, content) {
		return Unchanged, nil
	}

	tmp, err := os.CreateTemp(d.root, ".orgleaf-tmp-*")
	if err != nil {
		return Unchanged, fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return Unchanged, fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return Unchanged, fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Chmod(readOnlyMode); err != nil {
		return Unchanged, fmt.Errorf("storage: chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Unchanged, fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return Unchanged, fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return Written, nil
}
