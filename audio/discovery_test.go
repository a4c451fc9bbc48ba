package audio

import (
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"
)

func createFiles(t *testing.T, root string, names []string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0o644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
}

func relAll(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("Rel(%s, %s): %v", root, f, err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestFindAudioFiles_OrderAndFiltering(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, []string{
		"b.mp3",
		"a.mp3",
		"night2/c.wav",
		"night1/z.WAV",
		"notes.txt",
		"image.png",
	})

	opts := ScanOptions{Extensions: []string{".wav", ".mp3"}}
	files, err := FindAudioFiles(root, opts)
	if err != nil {
		t.Fatalf("FindAudioFiles() error = %v", err)
	}

	// all wav files first, then all mp3 files, each group sorted
	expected := []string{"night1/z.WAV", "night2/c.wav", "a.mp3", "b.mp3"}
	if got := relAll(t, root, files); !reflect.DeepEqual(got, expected) {
		t.Errorf("FindAudioFiles() = %v, expected %v", got, expected)
	}
}

func TestFindAudioFiles_SkipsLabelFolders(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, []string{
		"clip1.wav",
		"TruePos/sorted.wav",
		"FalsePos/sorted.wav",
		"deployment/TruePos/nested.wav", // only top-level label folders are skipped
	})

	opts := ScanOptions{
		Extensions: []string{".wav"},
		SkipDirs:   []string{"TruePos", "FalsePos", "Uncertain"},
	}
	files, err := FindAudioFiles(root, opts)
	if err != nil {
		t.Fatalf("FindAudioFiles() error = %v", err)
	}

	expected := []string{"clip1.wav", "deployment/TruePos/nested.wav"}
	if got := relAll(t, root, files); !reflect.DeepEqual(got, expected) {
		t.Errorf("FindAudioFiles() = %v, expected %v", got, expected)
	}
}

func TestFindAudioFiles_EmptyDirectory(t *testing.T) {
	files, err := FindAudioFiles(t.TempDir(), ScanOptions{Extensions: []string{".wav"}})
	if err != nil {
		t.Fatalf("FindAudioFiles() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected no files in empty directory, got %v", files)
	}
}

func TestFindAudioFilesWithWalkDir_NonExistentDirectory(t *testing.T) {
	_, err := findAudioFilesWithWalkDir("/path/to/nonexistent/directory", ScanOptions{})
	if err == nil {
		t.Error("findAudioFilesWithWalkDir() expected error for non-existent directory, got nil")
	}
}

func TestFindAudioFilesWithFd(t *testing.T) {
	if !isFdAvailable() {
		t.Skip("fd not available, skipping fd-specific test")
	}

	root := t.TempDir()
	createFiles(t, root, []string{"a.wav", "TruePos/b.wav", "c.txt"})

	files, err := findAudioFilesWithFd(root, ScanOptions{Extensions: []string{".wav"}, SkipDirs: []string{"TruePos"}})
	if err != nil {
		t.Fatalf("findAudioFilesWithFd() error = %v", err)
	}

	expected := []string{"a.wav"}
	if got := relAll(t, root, files); !reflect.DeepEqual(got, expected) {
		t.Errorf("findAudioFilesWithFd() = %v, expected %v", got, expected)
	}
}

func TestIsFdAvailable(t *testing.T) {
	result := isFdAvailable()

	_, err := exec.LookPath("fd")
	expected := err == nil

	if result != expected {
		t.Errorf("isFdAvailable() = %v, expected %v", result, expected)
	}
}
