package report

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simplylegal/simplylegal/internal/normalize"
)

func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("report is not a zip archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document part: %v", err)
		}
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read document part: %v", err)
		}
		return string(raw)
	}
	t.Fatal("word/document.xml missing from report")
	return ""
}

func TestBuild_ContainsContent(t *testing.T) {
	flags := []normalize.RedFlag{
		{
			Quote:     "tenant waives all claims",
			Risk:      "You give up the right to sue.",
			Severity:  normalize.SeverityHigh,
			WorstCase: "No recourse after an injury.",
		},
	}

	data, err := Build("Plain Language Summary", "You pay rent monthly.\n\nThe landlord can enter with notice.", flags)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	xml := documentXML(t, data)
	for _, want := range []string{
		"Plain Language Summary",
		"You pay rent monthly.",
		"The landlord can enter with notice.",
		"Red Flags",
		"[HIGH]",
		"tenant waives all claims",
		"Risk: You give up the right to sue.",
		"Worst case: No recourse after an injury.",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestBuild_NoFlagsOmitsSection(t *testing.T) {
	data, err := Build("Summary", "Nothing alarming here.", nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if xml := documentXML(t, data); strings.Contains(xml, "Red Flags") {
		t.Error("empty flag list should not produce a Red Flags section")
	}
}

func TestWrite_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.docx")
	err := Write(path, "Summary", "Simple text.", []normalize.RedFlag{
		{Quote: "q", Risk: "r", Severity: normalize.SeverityLow},
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("report file is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if xml := documentXML(t, data); !strings.Contains(xml, "Simple text.") {
		t.Error("written report missing body text")
	}
}
