package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

const (
	// wavFormatPCM is the only sample encoding the decoder maps to integer samples.
	wavFormatPCM = 1
	// wavFormatExtensible keeps the real encoding in the fmt chunk's SubFormat GUID.
	wavFormatExtensible = 0xFFFE
)

// fmtChunkID names the RIFF chunk holding the wave format.
var fmtChunkID = [4]byte{'f', 'm', 't', ' '}

// Load decodes an audio file, mixes it to mono and resamples it to sampleRate
func Load(path string, sampleRate int) (*Clip, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	var raw *pcm
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		raw, err = decodeWAV(path)
	case ".mp3":
		raw, err = decodeMP3(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	samples := Resample(raw.mono(), raw.rate, sampleRate)

	return &Clip{
		Path:       path,
		Samples:    samples,
		SampleRate: sampleRate,
		Duration:   RoundDuration(float64(len(samples)) / float64(sampleRate)),
	}, nil
}

// decodeWAV reads a PCM WAV file into normalised interleaved samples
func decodeWAV(path string) (*pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file: %w", path, ErrUnsupportedFormat)
	}
	format := d.WavAudioFormat
	if format == wavFormatExtensible {
		sub, err := wavSubFormat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read format of %s: %w", path, err)
		}
		// an extensible header without the extension carries no other encoding
		if sub == 0 {
			sub = wavFormatPCM
		}
		format = sub
	}
	if format != wavFormatPCM {
		return nil, fmt.Errorf("%s uses wav format %d, only PCM is supported: %w", path, format, ErrUnsupportedFormat)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	bitDepth := int(d.BitDepth)
	if bitDepth <= 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("%s has unsupported bit depth %d: %w", path, bitDepth, ErrUnsupportedFormat)
	}

	scale := float64(int64(1) << uint(bitDepth-1))
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		if bitDepth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		samples[i] = float64(v) / scale
	}

	channels := int(d.NumChans)
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}

	return &pcm{samples: samples, channels: channels, rate: int(d.SampleRate)}, nil
}

// wavSubFormat returns the format code from the SubFormat GUID of a
// WAVE_FORMAT_EXTENSIBLE fmt chunk, or 0 when the chunk has no extension.
func wavSubFormat(path string) (uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	p := riff.New(f)
	if err := p.ParseHeaders(); err != nil {
		return 0, err
	}
	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, err
		}
		if ch.ID != fmtChunkID {
			ch.Drain()
			continue
		}
		// format(2) channels(2) rate(4) bytes/s(4) align(2) bits(2) cbSize(2)
		// valid bits(2) channel mask(4) SubFormat(16)
		if ch.Size < 40 {
			return 0, nil
		}
		buf := make([]byte, ch.Size)
		if _, err := io.ReadFull(ch, buf); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint16(buf[24:26]), nil
	}
}

// decodeMP3 reads an MP3 file. The decoder always yields 16-bit stereo.
func decodeMP3(path string) (*pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	d, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid mp3 file: %w", path, ErrUnsupportedFormat)
	}

	data, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	samples := make([]float64, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[2*i:]))
		samples[i] = float64(v) / 32768
	}

	return &pcm{samples: samples, channels: 2, rate: d.SampleRate()}, nil
}

// mono averages interleaved channels into a single channel
func (p *pcm) mono() []float64 {
	if p.channels <= 1 {
		return p.samples
	}

	frames := len(p.samples) / p.channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < p.channels; c++ {
			sum += p.samples[i*p.channels+c]
		}
		out[i] = sum / float64(p.channels)
	}
	return out
}

// Resample converts samples from one rate to another by linear interpolation
func Resample(samples []float64, from, to int) []float64 {
	if from == to || from <= 0 || to <= 0 || len(samples) == 0 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}

	ratio := float64(from) / float64(to)
	n := int(math.Ceil(float64(len(samples)) * float64(to) / float64(from)))
	out := make([]float64, n)
	last := len(samples) - 1

	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= last {
			out[i] = samples[last]
			continue
		}
		frac := pos - float64(j)
		out[i] = samples[j]*(1-frac) + samples[j+1]*frac
	}
	return out
}
