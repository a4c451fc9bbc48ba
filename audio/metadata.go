package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

// ProbeDuration reads a file's duration in seconds from its headers without decoding samples
func ProbeDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		d := wav.NewDecoder(f)
		if !d.IsValidFile() {
			return 0, fmt.Errorf("%s is not a valid wav file: %w", path, ErrUnsupportedFormat)
		}
		// the RIFF size also counts LIST, bext and other chunks, so use the data chunk
		if err := d.FwdToPCM(); err != nil {
			return 0, fmt.Errorf("failed to find audio data in %s: %w", path, err)
		}
		frameSize := int64(d.NumChans) * ((int64(d.BitDepth) + 7) / 8)
		if frameSize <= 0 || d.SampleRate == 0 {
			return 0, fmt.Errorf("failed to get duration of %s", path)
		}
		return float64(d.PCMLen()/frameSize) / float64(d.SampleRate), nil

	case ".mp3":
		d, err := mp3.NewDecoder(f)
		if err != nil {
			return 0, fmt.Errorf("%s is not a valid mp3 file: %w", path, ErrUnsupportedFormat)
		}
		length := d.Length()
		if length < 0 || d.SampleRate() <= 0 {
			return 0, fmt.Errorf("failed to get duration of %s", path)
		}
		// 16-bit stereo: 4 bytes per frame
		return float64(length) / 4 / float64(d.SampleRate()), nil
	}

	return 0, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// GetFileSize returns the size of a file in bytes
func GetFileSize(filePath string) (int64, error) {
	fi, err := os.Stat(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to get file size: %w", err)
	}
	return fi.Size(), nil
}
