package main

import (
	"strings"
	"testing"
)

func TestOverwriteFlag_AcceptsYesAndShorthand(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{name: "root_shorthand", args: []string{"-y"}},
		{name: "root_long", args: []string{"--yes"}},
		{name: "translate_shorthand", args: []string{"translate", "-y"}},
		{name: "translate_long", args: []string{"translate", "--yes"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := executeCommand(t, tc.args...)
			if err == nil {
				t.Fatalf("expected command error from missing required args, got nil")
			}
			if strings.Contains(out, "unknown shorthand flag: 'y'") || strings.Contains(out, "unknown flag: --yes") {
				t.Fatalf("expected --yes/-y to be parsed, got output: %s", out)
			}
		})
	}
}

func TestOverwriteFlag_RejectsDeprecatedLongY(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{name: "root_deprecated_long_y", args: []string{"--y"}},
		{name: "translate_deprecated_long_y", args: []string{"translate", "--y"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := executeCommand(t, tc.args...)
			if err == nil {
				t.Fatalf("expected unknown flag error for --y")
			}
			if !strings.Contains(out, "unknown flag: --y") {
				t.Fatalf("expected unknown flag: --y, got output: %s", out)
			}
		})
	}
}

func TestVersionSubcommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "simplylegal") {
		t.Fatalf("expected version banner, got: %s", out)
	}
}

func TestRootHelpListsSubcommands(t *testing.T) {
	out, err := executeCommand(t)
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	for _, name := range []string{"serve", "translate", "watch", "keys"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected help to list %q, got: %s", name, out)
		}
	}
}
