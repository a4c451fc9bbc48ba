package audio

import "os"

// Clip is a decoded recording, mixed to mono and resampled.
type Clip struct {
	Path       string
	Samples    []float64 // normalised to [-1, 1]
	SampleRate int
	Duration   float64 // seconds, rounded to 0.1
}

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	FileInfo    os.FileInfo
	IsDirectory bool
	IsAudioFile bool
}

// pcm is raw interleaved decoder output before mixdown.
type pcm struct {
	samples  []float64
	channels int
	rate     int
}
