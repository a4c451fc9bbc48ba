package spectrogram

import (
	"fmt"
	"math"
)

// Tick is an axis position (frame or bin) with its label.
type Tick struct {
	Pos   int
	Label string
}

// XTicks marks the start and end of the clip in seconds.
func (s *Spectrogram) XTicks() []Tick {
	return []Tick{
		{Pos: 0, Label: "0"},
		{Pos: s.Frames(), Label: fmt.Sprintf("%.1f", s.Duration)},
	}
}

// YTicks marks every step bins with the bin's frequency in Hz.
func (s *Spectrogram) YTicks(step int) []Tick {
	if step <= 0 {
		step = 100
	}
	var ticks []Tick
	for b := 0; b < s.Bins(); b += step {
		ticks = append(ticks, Tick{Pos: b, Label: fmt.Sprintf("%d", int(math.Round(s.BinFrequency(b))))})
	}
	return ticks
}
