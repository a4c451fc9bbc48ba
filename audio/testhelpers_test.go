package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV writes 16-bit PCM samples (interleaved when channels > 1)
func writeTestWAV(t *testing.T, path string, rate, channels int, samples []int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Failed to write samples: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Failed to close encoder: %v", err)
	}
}

// sine returns n samples of a 16-bit sine tone
func sine(n, rate int, freq, amplitude float64) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = int(amplitude * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

// writeExtensibleWAV writes 16-bit samples with a WAVE_FORMAT_EXTENSIBLE fmt chunk
// whose SubFormat GUID starts with subFormat.
func writeExtensibleWAV(t *testing.T, path string, rate, channels int, subFormat uint16, samples []int16) {
	t.Helper()

	dataLen := uint32(len(samples) * 2)
	blockAlign := uint16(channels * 2)

	var b bytes.Buffer
	le := func(v any) {
		if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
			t.Fatalf("Failed to build header: %v", err)
		}
	}

	b.WriteString("RIFF")
	le(uint32(4 + 8 + 40 + 8 + dataLen))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	le(uint32(40))
	le(uint16(0xFFFE))
	le(uint16(channels))
	le(uint32(rate))
	le(uint32(rate) * uint32(blockAlign))
	le(blockAlign)
	le(uint16(16)) // bits per sample
	le(uint16(22)) // extension size
	le(uint16(16)) // valid bits
	le(uint32(0))  // channel mask
	le(subFormat)
	b.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})

	b.WriteString("data")
	le(dataLen)
	le(samples)

	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
