// Package config provides configuration types and defaults for clipsorter.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/clipsorter/audio"
	"github.com/lepinkainen/clipsorter/spectrogram"
)

// Label is a classification the operator can sort a clip into.
// Folder is created under the reviewed folder and receives the moved clip.
type Label struct {
	Key    string `yaml:"key"`    // single key that triggers the move
	Folder string `yaml:"folder"` // e.g. "TruePos" or a species code like "TO"
	Name   string `yaml:"name"`   // button text, e.g. "Correct"
	Color  string `yaml:"color"`  // hex color e.g. "#6699CC"
}

// SpectrogramConfig controls how clips are loaded and transformed.
type SpectrogramConfig struct {
	SampleRate int     `yaml:"sample_rate"`
	NFFT       int     `yaml:"n_fft"`
	HopLength  int     `yaml:"hop_length"`
	WinLength  int     `yaml:"win_length"`
	TopDB      float64 `yaml:"top_db"`
}

// Config holds all configuration options for clipsorter.
type Config struct {
	// MaxDuration is the longest clip (seconds) that gets a spectrogram.
	MaxDuration   float64           `yaml:"max_duration"`
	Extensions    []string          `yaml:"extensions"`
	Labels        []Label           `yaml:"labels"`
	Spectrogram   SpectrogramConfig `yaml:"spectrogram"`
	JournalPath   string            `yaml:"journal_path"`
	NativeDialogs bool              `yaml:"native_dialogs"`
	// Player overrides the external player binary (ffplay, afplay, aplay).
	Player string `yaml:"player"`
}

// ReservedKeys are bound to navigation and cannot be used by labels.
var ReservedKeys = []string{"q", "p", "z", "h", "l", "o", "1", "2", "?", "left", "right", "enter", "esc", "ctrl+c"}

// DefaultLabels returns the labels of the standard review workflow.
func DefaultLabels() []Label {
	return []Label{
		{Key: "t", Folder: "TruePos", Name: "Correct", Color: "#6699CC"},
		{Key: "f", Folder: "FalsePos", Name: "Incorrect", Color: "#EE99AA"},
		{Key: "u", Folder: "Uncertain", Name: "Uncertain", Color: "#EECC66"},
		{Key: "w", Folder: "TO", Name: "Tawny Owl", Color: "#EECC66"},
		{Key: "n", Folder: "FN", Name: "Thrush Nightingale", Color: "#EECC66"},
		{Key: "g", Folder: "H_", Name: "Grey Heron", Color: "#EECC66"},
	}
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		MaxDuration: 10.0,
		Extensions:  []string{".wav", ".mp3"},
		Labels:      DefaultLabels(),
		Spectrogram: SpectrogramConfig{
			SampleRate: 22050,
			NFFT:       1024,
			HopLength:  256,
			WinLength:  1024,
			TopDB:      80,
		},
		JournalPath: DefaultJournalPath(),
	}
}

// DefaultDir returns the directory holding the config file and journal.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".clipsorter"
	}
	return filepath.Join(dir, "clipsorter")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultJournalPath returns the default move journal location.
func DefaultJournalPath() string {
	return filepath.Join(DefaultDir(), "journal.db")
}

// Load reads the YAML file at path over the defaults.
// A missing file is only an error when the path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// normalize lowercases extensions and makes sure they start with a dot.
func (c *Config) normalize() {
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	if len(c.Labels) == 0 {
		c.Labels = DefaultLabels()
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MaxDuration <= 0 {
		return fmt.Errorf("max_duration must be positive, got %v", c.MaxDuration)
	}

	if len(c.Extensions) == 0 {
		return errors.New("at least one extension is required")
	}
	for i, ext := range c.Extensions {
		if ext == "" || ext == "." {
			return fmt.Errorf("extension %d is empty", i)
		}
	}

	if err := c.Spectrogram.Validate(); err != nil {
		return err
	}

	return ValidateLabels(c.Labels)
}

// Validate checks the STFT parameters.
func (s SpectrogramConfig) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", s.SampleRate)
	}
	if s.NFFT <= 0 || s.NFFT&(s.NFFT-1) != 0 {
		return fmt.Errorf("n_fft must be a power of two, got %d", s.NFFT)
	}
	if s.HopLength <= 0 || s.HopLength > s.NFFT {
		return fmt.Errorf("hop_length must be in (0, %d], got %d", s.NFFT, s.HopLength)
	}
	if s.WinLength <= 0 || s.WinLength > s.NFFT {
		return fmt.Errorf("win_length must be in (0, %d], got %d", s.NFFT, s.WinLength)
	}
	if s.TopDB <= 0 {
		return fmt.Errorf("top_db must be positive, got %v", s.TopDB)
	}
	return nil
}

// Params converts the settings to STFT parameters.
func (s SpectrogramConfig) Params() spectrogram.Params {
	return spectrogram.Params{
		NFFT:      s.NFFT,
		HopLength: s.HopLength,
		WinLength: s.WinLength,
		TopDB:     s.TopDB,
	}
}

// FileOptions returns the settings for rendering a clip from disk.
func (c *Config) FileOptions() spectrogram.FileOptions {
	return spectrogram.FileOptions{
		SampleRate:  c.Spectrogram.SampleRate,
		MaxDuration: c.MaxDuration,
		Params:      c.Spectrogram.Params(),
	}
}

// ScanOptions returns the folder scan settings: configured extensions, label folders skipped.
func (c *Config) ScanOptions() audio.ScanOptions {
	return audio.ScanOptions{Extensions: c.Extensions, SkipDirs: c.LabelFolders()}
}

// ValidateLabels checks label configuration for errors.
func ValidateLabels(labels []Label) error {
	keys := make(map[string]bool, len(labels))
	folders := make(map[string]bool, len(labels))

	for i, l := range labels {
		if l.Folder == "" {
			return fmt.Errorf("label %d: folder is required", i)
		}
		if l.Folder == "." || l.Folder == ".." || strings.ContainsAny(l.Folder, `/\`) {
			return fmt.Errorf("label %d (%s): folder must be a plain directory name", i, l.Folder)
		}
		if folders[l.Folder] {
			return fmt.Errorf("label %d (%s): duplicate folder", i, l.Folder)
		}
		folders[l.Folder] = true

		if l.Key == "" {
			continue // button only
		}
		if isReserved(l.Key) {
			return fmt.Errorf("label %d (%s): key %q is reserved", i, l.Folder, l.Key)
		}
		if keys[l.Key] {
			return fmt.Errorf("label %d (%s): duplicate key %q", i, l.Folder, l.Key)
		}
		keys[l.Key] = true
	}
	return nil
}

// LabelFolders returns the folder names of all labels.
func (c *Config) LabelFolders() []string {
	folders := make([]string, len(c.Labels))
	for i, l := range c.Labels {
		folders[i] = l.Folder
	}
	return folders
}

// LabelForKey returns the label bound to key.
func (c *Config) LabelForKey(key string) (Label, bool) {
	for _, l := range c.Labels {
		if l.Key != "" && l.Key == key {
			return l, true
		}
	}
	return Label{}, false
}

func isReserved(key string) bool {
	for _, k := range ReservedKeys {
		if k == key {
			return true
		}
	}
	return false
}
