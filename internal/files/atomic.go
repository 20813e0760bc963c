// Package files writes user-visible outputs safely: atomic replace,
// collision-avoiding names and symlink refusal.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/simplylegal/simplylegal/internal/logger"
)

// AtomicWrite writes data to a temp file in the target directory and
// renames it into place, so readers never observe a partial file. An
// existing file at path is replaced.
func AtomicWrite(path string, data []byte, perms os.FileMode) error {
	if err := RejectSymlinkPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "simplylegal-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	cleanup := true
	defer func() {
		if cleanup {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := tmpFile.Chmod(perms); err != nil {
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := renameAtomic(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to destination: %w", err)
	}
	if err := syncDir(dir); err != nil {
		logger.Warn("Directory fsync failed (safe to ignore on some platforms)", "path", dir, "error", err)
	}

	cleanup = false
	return nil
}

// AtomicWriteExclusive writes data atomically without replacing any
// existing file: when path is taken it diverts to a SafePath variant.
// It returns the path actually written.
func AtomicWriteExclusive(path string, data []byte, perms os.FileMode) (string, error) {
	candidate, _, err := SafePath(path)
	if err != nil {
		return "", err
	}
	if err := AtomicWrite(candidate, data, perms); err != nil {
		return "", err
	}
	return candidate, nil
}

func syncDir(dir string) error {
	// Directory handles cannot be fsynced on Windows.
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
