package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		// Valid audio files
		{"WAV lowercase", "clip.wav", true},
		{"WAV uppercase", "clip.WAV", true},
		{"MP3", "clip.mp3", true},
		{"Full path", "/data/night1/clip.wav", true},
		{"Relative path", "./night1/clip.mp3", true},

		// Invalid files
		{"No extension", "clip", false},
		{"Text file", "clip.txt", false},
		{"FLAC not configured", "clip.flac", false},
		{"Video file", "clip.mp4", false},
		{"Empty string", "", false},

		// Edge cases
		{"Multiple dots", "20220601_021500.part2.wav", true},
		{"Hidden file", ".hidden.wav", true},
		{"Space in name", "tawny owl.wav", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsAudioFile(tt.path, []string{".wav", ".mp3"})
			if result != tt.expected {
				t.Errorf("IsAudioFile(%q) = %v, expected %v", tt.path, result, tt.expected)
			}
		})
	}
}

func TestIsAudioFile_CustomExtensions(t *testing.T) {
	if !IsAudioFile("clip.flac", []string{".flac"}) {
		t.Error("Expected .flac to match when configured")
	}
	if IsAudioFile("clip.wav", []string{".flac"}) {
		t.Error("Expected .wav not to match when only .flac is configured")
	}
	if !IsAudioFile("clip.mp3", nil) {
		t.Error("Expected default extensions to include .mp3")
	}
}

func TestCheckDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		max      float64
		tooLong  bool
	}{
		{"Short clip", 3.0, 10.0, false},
		{"Exactly at maximum", 10.0, 10.0, false},
		{"Just over maximum", 10.1, 10.0, true},
		{"Much longer", 3600, 10.0, true},
		{"Empty clip", 0, 10.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDuration(tt.duration, tt.max)
			if got := errors.Is(err, ErrTooLong); got != tt.tooLong {
				t.Errorf("CheckDuration(%v, %v) too long = %v, expected %v (err %v)", tt.duration, tt.max, got, tt.tooLong, err)
			}
		})
	}
}

func TestRoundDuration(t *testing.T) {
	tests := []struct {
		in, out float64
	}{
		{2.94, 2.9},
		{2.95, 3.0},
		{10.04, 10.0},
		{0, 0},
		// exact binary halves go to the even digit
		{10.25, 10.2},
		{0.25, 0.2},
		{0.75, 0.8},
		{10.250001, 10.3},
	}
	for _, tt := range tests {
		if got := RoundDuration(tt.in); got != tt.out {
			t.Errorf("RoundDuration(%v) = %v, expected %v", tt.in, got, tt.out)
		}
	}
}

func TestValidateAudioFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := ValidateAudioFile(path, nil)
	if err != nil {
		t.Fatalf("ValidateAudioFile() error = %v", err)
	}
	if result.IsDirectory || !result.IsAudioFile {
		t.Errorf("unexpected result %+v", result)
	}

	result, err = ValidateAudioFile(dir, nil)
	if err != nil {
		t.Fatalf("ValidateAudioFile() error = %v", err)
	}
	if !result.IsDirectory {
		t.Error("Expected directory to be reported as directory")
	}

	if _, err := ValidateAudioFile(filepath.Join(dir, "missing.wav"), nil); err == nil {
		t.Error("Expected error for missing file")
	}
}
