package ui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/patrickmn/go-cache"

	"github.com/lepinkainen/clipsorter/config"
	"github.com/lepinkainen/clipsorter/logging"
	"github.com/lepinkainen/clipsorter/spectrogram"
)

// Loader computes spectrograms off the UI loop and keeps recent ones in memory,
// so stepping back and forth through a folder does not decode the same clip twice.
type Loader struct {
	opts  spectrogram.FileOptions
	cache *cache.Cache
}

// NewLoader creates a loader for cfg's sample rate, STFT settings and duration limit.
func NewLoader(cfg *config.Config) *Loader {
	return &Loader{
		opts:  cfg.FileOptions(),
		cache: cache.New(10*time.Minute, 15*time.Minute),
	}
}

type cachedClip struct {
	spec     *spectrogram.Spectrogram
	duration float64
}

// Load returns a command producing a ClipLoadedMsg for path.
func (l *Loader) Load(path string) tea.Cmd {
	return func() tea.Msg {
		return l.load(path)
	}
}

func (l *Loader) load(path string) ClipLoadedMsg {
	key, err := cacheKey(path)
	if err != nil {
		return ClipLoadedMsg{Path: path, Err: err}
	}

	if v, ok := l.cache.Get(key); ok {
		c := v.(cachedClip)
		return ClipLoadedMsg{Path: path, Duration: c.duration, Spec: c.spec}
	}

	start := time.Now()
	spec, duration, err := spectrogram.FromFile(path, l.opts)
	if err != nil {
		logging.Logger.WithError(err).WithField("path", path).Debug("clip not rendered")
		return ClipLoadedMsg{Path: path, Duration: duration, Err: err}
	}

	l.cache.Set(key, cachedClip{spec: spec, duration: duration}, cache.DefaultExpiration)
	logging.Logger.WithField("path", path).WithField("elapsed", time.Since(start)).Debug("computed spectrogram")

	return ClipLoadedMsg{Path: path, Duration: duration, Spec: spec}
}

// cacheKey changes whenever the file is replaced or rewritten.
func cacheKey(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("file not accessible: %w", err)
	}
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano()), nil
}

// Cached reports how many spectrograms are held.
func (l *Loader) Cached() int {
	return l.cache.ItemCount()
}
