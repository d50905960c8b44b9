// Package pathutil provides path checks and safe file writes for the
// template tools. ValidatePath keeps a directory walk from following a
// symlink out of the tree it was pointed at; WriteFileAtomic replaces an
// output file without leaving a half-written file behind.
package pathutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a path resolves to a location outside its root.
var ErrOutsideRoot = errors.New("path resolves outside the walk root")

// ValidatePath checks that path, after symlink resolution, stays inside root.
// Relative paths are interpreted against root. A path that cannot be
// resolved (it does not exist yet) is checked lexically.
func ValidatePath(path, root string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if root == "" {
		return fmt.Errorf("root cannot be empty")
	}

	lexRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("cannot resolve root to absolute path: %w", err)
	}

	absPath := filepath.Clean(path)
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(lexRoot, absPath)
	}

	resolvedRoot, rootErr := filepath.EvalSymlinks(lexRoot)
	resolvedPath, pathErr := filepath.EvalSymlinks(absPath)
	if rootErr != nil || pathErr != nil {
		if within(absPath, lexRoot) {
			return nil
		}
		return fmt.Errorf("%w: %s is not within %s", ErrOutsideRoot, path, root)
	}

	if !within(resolvedPath, resolvedRoot) {
		return fmt.Errorf("%w: %s is not within %s", ErrOutsideRoot, path, root)
	}
	return nil
}

func within(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
