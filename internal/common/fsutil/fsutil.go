package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' or '~/' to the user's home directory.
// Other users' homes (~name) are rejected.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return "", fmt.Errorf("cannot expand %q: only ~ and ~/ are supported", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/models/plants.onnx
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// SpoolTemp copies r into a new temporary file created in dir (os.TempDir
// when empty) and returns its path with a cleanup func that removes it.
// On error nothing is left on disk and cleanup is a no-op.
func SpoolTemp(dir, pattern string, r io.Reader) (string, func(), error) {
	noop := func() {}
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", noop, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	remove := func() { _ = os.Remove(path) }
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		remove()
		return "", noop, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		remove()
		return "", noop, fmt.Errorf("close temp file: %w", err)
	}
	return path, remove, nil
}
