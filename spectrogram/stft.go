// Package spectrogram turns decoded clips into log-magnitude time/frequency images.
package spectrogram

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/lepinkainen/clipsorter/audio"
)

// ErrEmptyClip is returned when there are no samples to transform.
var ErrEmptyClip = errors.New("clip has no samples")

// Params holds the STFT settings.
type Params struct {
	NFFT      int
	HopLength int
	WinLength int
	TopDB     float64
}

// DefaultParams matches the review workflow: 1024-point frames with a 256 hop.
func DefaultParams() Params {
	return Params{NFFT: 1024, HopLength: 256, WinLength: 1024, TopDB: 80}
}

// Validate checks the parameters before any transform runs.
func (p Params) Validate() error {
	if p.NFFT <= 0 || p.NFFT&(p.NFFT-1) != 0 {
		return fmt.Errorf("n_fft must be a power of two, got %d", p.NFFT)
	}
	if p.HopLength <= 0 || p.WinLength <= 0 || p.WinLength > p.NFFT {
		return fmt.Errorf("invalid hop %d / window %d for n_fft %d", p.HopLength, p.WinLength, p.NFFT)
	}
	if p.TopDB <= 0 {
		return fmt.Errorf("top_db must be positive, got %v", p.TopDB)
	}
	return nil
}

// Spectrogram is a dB-scaled magnitude matrix indexed [bin][frame].
// The loudest cell is 0 dB and nothing is below -TopDB.
type Spectrogram struct {
	DB         [][]float64
	SampleRate int
	NFFT       int
	Duration   float64
	TopDB      float64
}

// Compute runs the STFT over a clip and converts the magnitudes to dB
func Compute(clip *audio.Clip, p Params) (*Spectrogram, error) {
	mag, err := STFT(clip.Samples, p)
	if err != nil {
		return nil, err
	}

	return &Spectrogram{
		DB:         AmplitudeToDB(mag, p.TopDB),
		SampleRate: clip.SampleRate,
		NFFT:       p.NFFT,
		Duration:   clip.Duration,
		TopDB:      p.TopDB,
	}, nil
}

// STFT computes a centred short-time Fourier transform and returns magnitudes.
// The signal is reflect-padded by NFFT/2 on both sides, giving 1+len/hop frames
// and NFFT/2+1 frequency bins.
func STFT(samples []float64, p Params) ([][]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrEmptyClip
	}

	win := paddedWindow(p.WinLength, p.NFFT)
	pad := p.NFFT / 2
	padded := reflectPad(samples, pad)

	frames := 1 + (len(padded)-p.NFFT)/p.HopLength
	bins := p.NFFT/2 + 1

	mag := make([][]float64, bins)
	for b := range mag {
		mag[b] = make([]float64, frames)
	}

	frame := make([]float64, p.NFFT)
	for f := 0; f < frames; f++ {
		start := f * p.HopLength
		for i := range frame {
			frame[i] = padded[start+i] * win[i]
		}
		spectrum := fft.FFTReal(frame)
		for b := 0; b < bins; b++ {
			mag[b][f] = cmplx.Abs(spectrum[b])
		}
	}

	return mag, nil
}

// paddedWindow returns a periodic Hann window of winLength centred in nfft points
func paddedWindow(winLength, nfft int) []float64 {
	// an (n+1)-point symmetric window without its last point is the periodic window
	hann := window.Hann(winLength + 1)[:winLength]

	out := make([]float64, nfft)
	offset := (nfft - winLength) / 2
	copy(out[offset:], hann)
	return out
}

// reflectPad mirrors the signal around its edges without repeating the edge sample
func reflectPad(x []float64, pad int) []float64 {
	n := len(x)
	out := make([]float64, n+2*pad)
	for i := range out {
		out[i] = x[reflectIndex(i-pad, n)]
	}
	return out
}

func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
