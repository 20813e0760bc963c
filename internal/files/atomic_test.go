package files

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "summary.txt")

	if err := AtomicWrite(path, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	if err := AtomicWrite(path, []byte("second"), 0644); err != nil {
		t.Fatalf("AtomicWrite overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("content = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("leftover temp files: %d entries", len(entries))
	}
}

func TestAtomicWriteExclusive(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "summary.txt")
	if err := os.WriteFile(path, []byte("keep me"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	got, err := AtomicWriteExclusive(path, []byte("diverted"), 0644)
	if err != nil {
		t.Fatalf("AtomicWriteExclusive failed: %v", err)
	}
	if got == path {
		t.Fatalf("expected a diverted path, got the original")
	}

	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read original: %v", err)
	}
	if string(original) != "keep me" {
		t.Fatalf("original clobbered: %q", original)
	}
	diverted, err := os.ReadFile(got)
	if err != nil {
		t.Fatalf("read diverted: %v", err)
	}
	if string(diverted) != "diverted" {
		t.Fatalf("diverted content = %q", diverted)
	}
}
