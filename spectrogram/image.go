package spectrogram

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// viridis anchors at i/8, low to high.
var viridis = []color.RGBA{
	{68, 1, 84, 255},
	{71, 44, 122, 255},
	{59, 81, 139, 255},
	{44, 113, 142, 255},
	{33, 144, 141, 255},
	{39, 173, 129, 255},
	{92, 200, 99, 255},
	{170, 220, 50, 255},
	{253, 231, 37, 255},
}

// Viridis maps v in [0, 1] onto the viridis colour map.
func Viridis(v float64) color.RGBA {
	if v <= 0 {
		return viridis[0]
	}
	if v >= 1 {
		return viridis[len(viridis)-1]
	}

	pos := v * float64(len(viridis)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := viridis[i], viridis[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*frac + 0.5)
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}

// Bins returns the number of frequency bins.
func (s *Spectrogram) Bins() int { return len(s.DB) }

// Frames returns the number of time frames.
func (s *Spectrogram) Frames() int {
	if len(s.DB) == 0 {
		return 0
	}
	return len(s.DB[0])
}

// BinFrequency returns the centre frequency of bin in Hz.
func (s *Spectrogram) BinFrequency(bin int) float64 {
	return float64(bin) * float64(s.SampleRate) / float64(s.NFFT)
}

// Image draws one pixel per cell with low frequencies at the bottom.
func (s *Spectrogram) Image() *image.RGBA {
	bins, frames := s.Bins(), s.Frames()
	img := image.NewRGBA(image.Rect(0, 0, frames, bins))

	for b := 0; b < bins; b++ {
		y := bins - 1 - b
		for f := 0; f < frames; f++ {
			img.SetRGBA(f, y, Viridis((s.DB[b][f]+s.TopDB)/s.TopDB))
		}
	}
	return img
}

// SavePNG writes img to path, creating the parent directory.
func SavePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
