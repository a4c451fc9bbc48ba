package spectrogram

import (
	"fmt"
	"image"

	"github.com/corona10/goimagehash"
)

// PerceptualHash calculates a pHash of a spectrogram image.
// Clips of the same call tend to land within a small Hamming distance.
func PerceptualHash(img image.Image) (*goimagehash.ImageHash, error) {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate perceptual hash: %w", err)
	}
	return hash, nil
}
