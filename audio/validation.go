package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the audio types listed when no configuration says otherwise.
var DefaultExtensions = []string{".wav", ".mp3"}

var (
	// ErrTooLong is returned when a clip exceeds the configured maximum duration.
	ErrTooLong = errors.New("file is too long")
	// ErrUnsupportedFormat is returned for files no decoder understands.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// IsAudioFile checks if the file extension is one of the given audio extensions
func IsAudioFile(path string, extensions []string) bool {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	ext := filepath.Ext(path)
	ext = strings.ToLower(ext) // handle cases where extension is upper case

	for _, v := range extensions {
		if strings.ToLower(v) == ext {
			return true
		}
	}
	return false
}

// RoundDuration rounds seconds to one decimal place, halves to even
func RoundDuration(seconds float64) float64 {
	return math.RoundToEven(seconds*10) / 10
}

// CheckDuration returns ErrTooLong when duration is above maxDuration.
// A clip exactly at the maximum is accepted.
func CheckDuration(duration, maxDuration float64) error {
	if duration > maxDuration {
		return fmt.Errorf("%w (%.1fs, maximum %.1fs)", ErrTooLong, duration, maxDuration)
	}
	return nil
}

// ValidateAudioFile performs the file checks needed before decoding
func ValidateAudioFile(path string, extensions []string) (*FileValidationResult, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file not accessible: %w", err)
	}

	return &FileValidationResult{
		FileInfo:    fi,
		IsDirectory: fi.IsDir(),
		IsAudioFile: IsAudioFile(path, extensions),
	}, nil
}
