package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLI_Structure(t *testing.T) {
	// compile-time check of the command set
	var cli CLI

	_ = cli.UI
	_ = cli.View
	_ = cli.Sort
	_ = cli.Render
	_ = cli.Similar
	_ = cli.History
	_ = cli.Undo
	_ = cli.Verify
}

func TestKongParsing(t *testing.T) {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		t.Fatalf("Failed to build parser: %v", err)
	}
	if parser == nil {
		t.Error("Kong parser should not be nil")
	}
}

func TestKongParsing_Commands(t *testing.T) {
	testDir := t.TempDir()
	clip := filepath.Join(testDir, "clip.wav")
	if err := os.WriteFile(clip, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	testCases := []struct {
		name        string
		args        []string
		command     string
		expectError bool
	}{
		{name: "No arguments opens the UI", args: []string{}, command: "ui"},
		{name: "Folder goes to the default UI command", args: []string{testDir}, command: "ui"},
		{name: "View a clip", args: []string{"view", clip}, command: "view"},
		{name: "View needs an existing file", args: []string{"view", filepath.Join(testDir, "missing.wav")}, expectError: true},
		{name: "Sort a folder", args: []string{"sort", testDir}, command: "sort"},
		{name: "Sort rejects a file", args: []string{"sort", clip}, expectError: true},
		{name: "Render with flags", args: []string{"render", "--workers", "2", "--dry-run", clip}, command: "render"},
		{name: "Render needs paths", args: []string{"render"}, expectError: true},
		{name: "Similar with default folder", args: []string{"similar"}, command: "similar"},
		{name: "Similar without TUI", args: []string{"similar", "--no-tui", "--threshold", "5", testDir}, command: "similar"},
		{name: "History", args: []string{"history", testDir}, command: "history"},
		{name: "Undo several", args: []string{"undo", "--count", "3", testDir}, command: "undo"},
		{name: "Verify", args: []string{"verify", testDir}, command: "verify"},
		{name: "Global flags", args: []string{"--debug", "--native-dialogs", "--max-duration", "5", "sort", testDir}, command: "sort"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var cli CLI
			parser, err := newParser(&cli)
			if err != nil {
				t.Fatalf("Failed to build parser: %v", err)
			}

			ctx, err := parser.Parse(tc.args)

			if tc.expectError {
				if err == nil {
					t.Errorf("Expected error for args %v, but parsing succeeded", tc.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for args %v: %v", tc.args, err)
			}
			if !strings.HasPrefix(ctx.Command(), tc.command) {
				t.Errorf("Expected %q command, got %q", tc.command, ctx.Command())
			}
		})
	}
}

func TestKongParsing_Values(t *testing.T) {
	testDir := t.TempDir()

	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		t.Fatalf("Failed to build parser: %v", err)
	}

	_, err = parser.Parse([]string{"--max-duration", "7.5", "similar", "--no-tui", testDir})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cli.MaxDuration != 7.5 {
		t.Errorf("Expected MaxDuration 7.5, got %v", cli.MaxDuration)
	}
	if !cli.Similar.NoTUI {
		t.Error("Expected --no-tui to be set")
	}
	if cli.Similar.Threshold != 10 {
		t.Errorf("Expected default threshold 10, got %d", cli.Similar.Threshold)
	}
	if cli.Similar.Folder != testDir {
		t.Errorf("Expected folder %q, got %q", testDir, cli.Similar.Folder)
	}
}

func TestLoadConfig(t *testing.T) {
	testDir := t.TempDir()
	path := filepath.Join(testDir, "config.yaml")
	if err := os.WriteFile(path, []byte("max_duration: 20\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	tests := []struct {
		name         string
		cli          CLI
		wantDuration float64
		wantNative   bool
		expectError  bool
	}{
		{name: "File value", cli: CLI{Config: path}, wantDuration: 20},
		{name: "Flag overrides file", cli: CLI{Config: path, MaxDuration: 3, NativeDialogs: true}, wantDuration: 3, wantNative: true},
		{name: "Missing explicit file", cli: CLI{Config: filepath.Join(testDir, "missing.yaml")}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.cli.loadConfig()
			if tt.expectError {
				if err == nil {
					t.Error("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.MaxDuration != tt.wantDuration {
				t.Errorf("Expected MaxDuration %v, got %v", tt.wantDuration, cfg.MaxDuration)
			}
			if cfg.NativeDialogs != tt.wantNative {
				t.Errorf("Expected NativeDialogs %v, got %v", tt.wantNative, cfg.NativeDialogs)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}
