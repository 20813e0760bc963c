package main

import (
	"strings"
	"testing"
)

func TestValidateTranslatePaths(t *testing.T) {
	t.Run("accepts_supported_inputs", func(t *testing.T) {
		for _, input := range []string{"lease.txt", "lease.PDF", "contract.docx", "-"} {
			if err := validateTranslatePaths(input, "", &translateOptions{}); err != nil {
				t.Fatalf("expected %q to be accepted, got %v", input, err)
			}
		}
	})

	t.Run("rejects_unsupported_input_extension", func(t *testing.T) {
		err := validateTranslatePaths("notes.md", "", &translateOptions{})
		if err == nil {
			t.Fatalf("expected error")
		}
		if !strings.Contains(err.Error(), `unsupported input extension ".md"`) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects_missing_input_extension", func(t *testing.T) {
		err := validateTranslatePaths("lease", "", &translateOptions{})
		if err == nil {
			t.Fatalf("expected error")
		}
		if !strings.Contains(err.Error(), `"(none)"`) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects_non_txt_output", func(t *testing.T) {
		err := validateTranslatePaths("lease.txt", "out.pdf", &translateOptions{})
		if err == nil {
			t.Fatalf("expected error")
		}
		if !strings.Contains(err.Error(), `unsupported output extension ".pdf"`) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("audio_must_be_wav", func(t *testing.T) {
		opts := &translateOptions{audioPath: "speech.mp3"}
		err := validateTranslatePaths("lease.txt", "", opts)
		if err == nil {
			t.Fatalf("expected error")
		}
		if !strings.Contains(err.Error(), "audio output must end in .wav") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("report_must_be_docx", func(t *testing.T) {
		opts := &translateOptions{reportPath: "report.pdf"}
		err := validateTranslatePaths("lease.txt", "", opts)
		if err == nil {
			t.Fatalf("expected error")
		}
		if !strings.Contains(err.Error(), "report output must end in .docx") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("accepts_full_output_set", func(t *testing.T) {
		opts := &translateOptions{audioPath: "speech.wav", reportPath: "report.docx"}
		if err := validateTranslatePaths("lease.txt", "out.txt", opts); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	})
}

func TestDefaultAndTranslateInvocation_ExtensionValidationConsistency(t *testing.T) {
	rootOut, rootErr := executeCommand(t, "/tmp/simplylegal_sample.md")
	if rootErr == nil {
		t.Fatalf("expected root invocation error")
	}
	if !strings.Contains(rootErr.Error(), `unsupported input extension ".md"`) {
		t.Fatalf("unexpected root error: %v", rootErr)
	}
	if strings.Contains(rootErr.Error(), "unknown command") || strings.Contains(rootOut, "unknown command") {
		t.Fatalf("root invocation should not fail as unknown command, out=%q err=%v", rootOut, rootErr)
	}

	subOut, subErr := executeCommand(t, "translate", "/tmp/simplylegal_sample.md")
	if subErr == nil {
		t.Fatalf("expected translate subcommand error")
	}
	if !strings.Contains(subErr.Error(), `unsupported input extension ".md"`) {
		t.Fatalf("unexpected translate error: %v", subErr)
	}
	if strings.Contains(subErr.Error(), "unknown command") || strings.Contains(subOut, "unknown command") {
		t.Fatalf("translate subcommand should not fail as unknown command, out=%q err=%v", subOut, subErr)
	}
}

func TestReportTitle(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "lease.txt", want: "lease"},
		{input: "/docs/Rental Agreement.pdf", want: "Rental Agreement"},
		{input: "-", want: "Plain-Language Summary"},
	}

	for _, tc := range cases {
		if got := reportTitle(tc.input); got != tc.want {
			t.Fatalf("reportTitle(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
