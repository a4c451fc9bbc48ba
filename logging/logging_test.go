package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")

	closer, err := Setup(path, true)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	Logger.WithField("clip", "a.wav").Debug("loaded clip")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "loaded clip") || !strings.Contains(string(data), "clip=a.wav") {
		t.Errorf("log file missing entry, got: %s", data)
	}

	// reset so other tests do not write into the temp dir
	if _, err := Setup("", false); err != nil {
		t.Fatalf("Setup() reset error = %v", err)
	}
}

func TestSetup_Discard(t *testing.T) {
	closer, err := Setup("", false)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if closer == nil {
		t.Fatal("expected a non-nil closer")
	}
	Logger.Info("nowhere")
}
