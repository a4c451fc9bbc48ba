package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/clipsorter/audio"
	"github.com/lepinkainen/clipsorter/logging"
)

// errNoPlayer is shown when p is pressed without a usable player binary.
var errNoPlayer = errors.New("no audio player found, install ffmpeg (ffplay) or set player in the config")

// startPlayback plays path in the background. The returned cancel stops it early.
func startPlayback(player audio.Player, path string) (context.CancelFunc, tea.Cmd) {
	if player == nil {
		return nil, showDialog(errorDialog(errNoPlayer))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return cancel, func() tea.Msg {
		err := player.Play(ctx, path)
		if ctx.Err() != nil {
			// stopped on purpose
			err = nil
		}
		if err != nil {
			logging.Logger.WithError(err).WithField("path", path).Warn("playback failed")
		}
		return PlayDoneMsg{Path: path, Err: err}
	}
}

func stopPlayback(cancel context.CancelFunc) {
	if cancel != nil {
		cancel()
	}
}
