package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/clipsorter/utils"
)

// Player plays an audio file and returns when playback ends.
type Player interface {
	Play(ctx context.Context, path string) error
}

// ExecPlayer plays files through an external command line player.
// Unlike an in-process player it holds no handle on the file after it exits,
// so the clip can be moved straight away.
type ExecPlayer struct {
	Binary string
}

// NewPlayer finds the preferred player, or the first known one in PATH
func NewPlayer(preferred string) (*ExecPlayer, error) {
	bin, err := utils.FindPlayer(preferred)
	if err != nil {
		return nil, err
	}
	return &ExecPlayer{Binary: bin}, nil
}

// Play runs the player and blocks until it exits or ctx is cancelled
func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, p.Binary, PlayerArgs(p.Binary, path)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		return fmt.Errorf("failed to play %s: %w\nplayer output: %s", path, err, extractFirstLine(string(output)))
	}
	return nil
}

// PlayerArgs returns the arguments for playing path with the given player binary
func PlayerArgs(binary, path string) []string {
	name := strings.TrimSuffix(filepath.Base(binary), filepath.Ext(binary))
	switch name {
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "error", "--", path}
	case "aplay", "paplay":
		return []string{"--", path}
	default:
		return []string{path}
	}
}

// extractFirstLine extracts just the first line from a multi-line string
func extractFirstLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		return strings.TrimSpace(lines[0])
	}
	return "no additional information available"
}
