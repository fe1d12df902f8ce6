package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// ensureDir creates path (and parents) if needed. An existing non-directory
// anywhere along the path yields ErrNotDirectory.
func ensureDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotDirectory, path)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		if errors.Is(err, syscall.ENOTDIR) {
			return fmt.Errorf("%w: a parent of %s", ErrNotDirectory, path)
		}
		var pe *fs.PathError
		if errors.As(err, &pe) {
			if info, statErr := os.Stat(pe.Path); statErr == nil && !info.IsDir() {
				return fmt.Errorf("%w: %s", ErrNotDirectory, pe.Path)
			}
		}
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// ensureDirs calls ensureDir for each path in order.
func ensureDirs(paths ...string) error {
	for _, p := range paths {
		if err := ensureDir(p); err != nil {
			return err
		}
	}
	return nil
}

// requireDir checks that path exists and is a directory.
func requireDir(path, what string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s directory not found: %w", what, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w: %s", what, ErrNotDirectory, path)
	}
	return nil
}
