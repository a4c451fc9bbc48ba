package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/lepinkainen/clipsorter/audio"
	"github.com/lepinkainen/clipsorter/config"
	"github.com/lepinkainen/clipsorter/spectrogram"
)

// SingleModel is the "Single file" page: pick one clip and look at it.
type SingleModel struct {
	cfg    *config.Config
	loader *Loader
	player audio.Player

	picker  Picker
	picking bool

	path     string
	duration float64
	spec     *spectrogram.Spectrogram
	plot     string
	loading  bool
	status   string

	stopPlay context.CancelFunc

	width  int
	height int
}

func newSingleModel(cfg *config.Config, loader *Loader, player audio.Player) SingleModel {
	return SingleModel{cfg: cfg, loader: loader, player: player}
}

// Path returns the clip being shown.
func (m SingleModel) Path() string { return m.path }

// OpenPath shows path, which has to be one of the configured audio types.
func (m SingleModel) OpenPath(path string) (SingleModel, tea.Cmd) {
	res, err := audio.ValidateAudioFile(path, m.cfg.Extensions)
	if err != nil {
		return m, showDialog(errorDialog(err))
	}
	if res.IsDirectory || !res.IsAudioFile {
		return m, showDialog(errorDialog(fmt.Errorf("%s is not an audio file", filepath.Base(path))))
	}

	stopPlayback(m.stopPlay)
	m.stopPlay = nil
	m.path = path
	m.duration = 0
	m.spec = nil
	m.plot = ""
	m.status = ""
	m.loading = true
	return m, m.loader.Load(path)
}

func (m SingleModel) startPicking() (SingleModel, tea.Cmd) {
	if m.cfg.NativeDialogs {
		return m, nativePick(SinglePage, m.path, m.cfg.Extensions)
	}
	var cmd tea.Cmd
	m.picker, cmd = newPicker(SinglePage, m.path, m.cfg.Extensions, m.height-4)
	m.picking = true
	return m, cmd
}

// Update handles messages for the page. Messages meant for the other page are ignored.
func (m SingleModel) Update(msg tea.Msg) (SingleModel, tea.Cmd) {
	switch msg := msg.(type) {
	case PickedMsg:
		if msg.Page != SinglePage {
			return m, nil
		}
		m.picking = false
		switch {
		case msg.Canceled:
			return m, nil
		case msg.Err != nil:
			return m, showDialog(errorDialog(msg.Err))
		}
		return m.OpenPath(msg.Path)

	case ClipLoadedMsg:
		if msg.Path != m.path {
			return m, nil
		}
		m.loading = false
		m.duration = msg.Duration
		if msg.Err != nil {
			if errors.Is(msg.Err, audio.ErrTooLong) {
				return m, showDialog(tooLongDialog())
			}
			return m, showDialog(errorDialog(msg.Err))
		}
		m.spec = msg.Spec
		m.plot = renderPlot(m.spec, m.width, m.plotHeight())
		return m, nil

	case PlayDoneMsg:
		if msg.Path == m.path {
			m.status = ""
			if msg.Err != nil {
				return m, showDialog(errorDialog(msg.Err))
			}
		}
		return m, nil
	}

	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Open):
			return m.startPicking()
		case key.Matches(msg, keys.Play):
			return m.play()
		}
	}
	return m, nil
}

func (m SingleModel) play() (SingleModel, tea.Cmd) {
	if m.path == "" {
		return m, nil
	}
	stopPlayback(m.stopPlay)
	var cmd tea.Cmd
	m.stopPlay, cmd = startPlayback(m.player, m.path)
	if m.stopPlay != nil {
		m.status = "Playing " + filepath.Base(m.path)
	}
	return m, cmd
}

// Click handles a left click on one of the page's buttons.
func (m SingleModel) Click(msg tea.MouseMsg) (SingleModel, tea.Cmd) {
	if m.picking {
		return m, nil
	}
	switch {
	case zone.Get("single-open").InBounds(msg):
		return m.startPicking()
	case zone.Get("single-play").InBounds(msg):
		return m.play()
	}
	return m, nil
}

// SetSize updates the space available to the page and re-renders the spectrogram.
func (m SingleModel) SetSize(width, height int) SingleModel {
	m.width = width
	m.height = height
	m.plot = renderPlot(m.spec, m.width, m.plotHeight())
	return m
}

// plotHeight is what is left after the info lines, buttons and status.
func (m SingleModel) plotHeight() int {
	return m.height - 7
}

// Stop ends playback.
func (m SingleModel) Stop() {
	stopPlayback(m.stopPlay)
}

func (m SingleModel) help() pageHelp {
	if m.picking {
		return pageHelp{short: pickerHelp}
	}
	return pageHelp{short: []key.Binding{keys.Open, keys.Play, keys.Multi, keys.Quit}}
}

// View implements the page body
func (m SingleModel) View() string {
	if m.picking {
		return m.picker.View()
	}

	var content strings.Builder

	if m.path == "" {
		content.WriteString(MutedStyle.Render("No file selected"))
	} else {
		content.WriteString(InfoStyle.Render(m.path))
	}
	content.WriteString("\n")
	content.WriteString(durationLine(m.duration))
	content.WriteString("\n\n")

	switch {
	case m.loading:
		content.WriteString(ProcessingStyle.Render("Loading spectrogram..."))
	case m.plot != "":
		content.WriteString(m.plot)
	}
	content.WriteString("\n\n")

	content.WriteString(button("single-open", "Select file"))
	content.WriteString(" ")
	content.WriteString(button("single-play", "Play"))
	if m.status != "" {
		content.WriteString("\n")
		content.WriteString(ProcessingStyle.Render(m.status))
	}

	return content.String()
}

func durationLine(d float64) string {
	if d <= 0 {
		return ""
	}
	return fmt.Sprintf("Duration: %.1f s", d)
}

func button(id, text string) string {
	return zone.Mark(id, buttonStyle.Render(text))
}

// renderPlot draws spec into width x height cells, or nothing when there is no room.
func renderPlot(spec *spectrogram.Spectrogram, width, height int) string {
	if spec == nil || width <= 0 || height < 3 {
		return ""
	}
	return spec.Terminal(width, height)
}
