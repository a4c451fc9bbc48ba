// Package audiotest writes WAV fixtures for tests.
package audiotest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteTone writes a mono 16-bit WAV holding a sine tone and returns its path.
func WriteTone(t testing.TB, path string, rate int, seconds, freq float64) string {
	t.Helper()
	return writeTone(t, path, rate, seconds, freq, nil)
}

// WriteToneWithComment writes the same tone as WriteTone followed by a LIST/INFO
// chunk holding comment.
func WriteToneWithComment(t testing.TB, path string, rate int, seconds, freq float64, comment string) string {
	t.Helper()
	return writeTone(t, path, rate, seconds, freq, &wav.Metadata{Comments: comment})
}

func writeTone(t testing.TB, path string, rate int, seconds, freq float64, meta *wav.Metadata) string {
	t.Helper()

	n := int(math.Round(seconds * float64(rate)))
	data := make([]int, n)
	for i := range data {
		data[i] = int(0.5 * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	enc.Metadata = meta
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Failed to write samples: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Failed to close encoder: %v", err)
	}
	return path
}
