// Package workspace locates files relative to the enclosing repository.
package workspace

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by FindUp when no directory on the way up holds
// the requested file.
var ErrNotFound = errors.New("file not found in workspace")

// FindUp looks for name in start and each of its parents. The search stops
// after the first directory that contains .git, so a file above the
// repository root is never picked up. It returns the path of the file found.
func FindUp(start, name string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		if isRoot(dir) {
			return "", ErrNotFound
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// isRoot reports whether dir is the top of a git working tree.
func isRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
