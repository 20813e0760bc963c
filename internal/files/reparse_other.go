//go:build !windows

package files

// Reparse points are a Windows concept; symlinks are covered by the
// Lstat check.
func isReparsePoint(string) (bool, error) { return false, nil }
