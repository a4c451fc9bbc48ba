package spectrogram

import (
	"fmt"

	"github.com/lepinkainen/clipsorter/audio"
)

// FileOptions controls FromFile.
type FileOptions struct {
	SampleRate  int
	MaxDuration float64
	Params      Params
}

// FromFile loads a clip and computes its spectrogram. The duration is checked
// against the container header first so long recordings are never decoded.
// On audio.ErrTooLong the returned duration is still set.
func FromFile(path string, opts FileOptions) (*Spectrogram, float64, error) {
	if probed, err := audio.ProbeDuration(path); err == nil {
		probed = audio.RoundDuration(probed)
		if err := audio.CheckDuration(probed, opts.MaxDuration); err != nil {
			return nil, probed, err
		}
	}

	clip, err := audio.Load(path, opts.SampleRate)
	if err != nil {
		return nil, 0, err
	}
	if err := audio.CheckDuration(clip.Duration, opts.MaxDuration); err != nil {
		return nil, clip.Duration, err
	}

	spec, err := Compute(clip, opts.Params)
	if err != nil {
		return nil, clip.Duration, fmt.Errorf("failed to compute spectrogram for %s: %w", path, err)
	}
	return spec, clip.Duration, nil
}
