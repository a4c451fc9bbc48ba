package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/lepinkainen/clipsorter/audio"
	"github.com/lepinkainen/clipsorter/config"
	"github.com/lepinkainen/clipsorter/journal"
	"github.com/lepinkainen/clipsorter/logging"
	"github.com/lepinkainen/clipsorter/sorter"
	"github.com/lepinkainen/clipsorter/spectrogram"
)

// recentRows is how many recent moves are listed under the buttons.
const recentRows = 5

// SortModel is the "Multiple files" page: step through a folder and sort each clip.
type SortModel struct {
	cfg     *config.Config
	loader  *Loader
	player  audio.Player
	journal *journal.Journal

	session *sorter.Session
	watcher *Watcher
	// history holds this session's moves, oldest first
	history []journal.Entry
	recent  list.Model

	picker  Picker
	picking bool

	current  string
	duration float64
	spec     *spectrogram.Spectrogram
	plot     string
	loading  bool
	status   string

	stopPlay context.CancelFunc

	width  int
	height int
}

func newSortModel(cfg *config.Config, loader *Loader, player audio.Player, j *journal.Journal) SortModel {
	return SortModel{
		cfg:     cfg,
		loader:  loader,
		player:  player,
		journal: j,
		recent:  newRecentList(),
	}
}

// Session returns the open folder session, or nil before a folder is chosen.
func (m SortModel) Session() *sorter.Session { return m.session }

// OpenFolder scans folder and shows its first clip. All previous state is dropped.
func (m SortModel) OpenFolder(folder string) (SortModel, tea.Cmd) {
	session, err := sorter.Open(folder, sorter.DirScanner{Options: m.cfg.ScanOptions()})
	if err != nil {
		if errors.Is(err, sorter.ErrNoFiles) {
			return m, showDialog(Dialog{Kind: InfoDialog, Title: "No files", Text: err.Error()})
		}
		return m, showDialog(errorDialog(err))
	}

	m.Stop()
	m.session = session
	m.watcher = nil
	m.history = nil
	m.recent.SetItems(nil)
	m.status = ""

	cmds := []tea.Cmd{m.loadCmd()}
	m = m.showCurrent()

	if w, err := Watch(session.Folder(), m.cfg.LabelFolders()); err != nil {
		logging.Logger.WithError(err).Warn("folder changes will not be picked up")
	} else {
		m.watcher = w
		cmds = append(cmds, w.Next())
	}

	return m, tea.Batch(cmds...)
}

// showCurrent resets the display for the session's current file.
func (m SortModel) showCurrent() SortModel {
	stopPlayback(m.stopPlay)
	m.stopPlay = nil
	m.current = m.session.Current()
	m.duration = 0
	m.spec = nil
	m.plot = ""
	m.loading = m.current != ""
	return m
}

func (m SortModel) loadCmd() tea.Cmd {
	if m.session == nil || m.session.Empty() {
		return nil
	}
	return m.loader.Load(m.session.Current())
}

func (m SortModel) startPicking() (SortModel, tea.Cmd) {
	start := ""
	if m.session != nil {
		start = m.session.Folder()
	}
	if m.cfg.NativeDialogs {
		return m, nativePick(MultiPage, start, m.cfg.Extensions)
	}
	var cmd tea.Cmd
	m.picker, cmd = newPicker(MultiPage, start, m.cfg.Extensions, m.height-4)
	m.picking = true
	return m, cmd
}

// Update handles messages for the page. Messages meant for the other page are ignored.
func (m SortModel) Update(msg tea.Msg) (SortModel, tea.Cmd) {
	switch msg := msg.(type) {
	case PickedMsg:
		if msg.Page != MultiPage {
			return m, nil
		}
		m.picking = false
		switch {
		case msg.Canceled:
			return m, nil
		case msg.Err != nil:
			return m, showDialog(errorDialog(msg.Err))
		}
		return m.OpenFolder(msg.Path)

	case ClipLoadedMsg:
		if msg.Path != m.current {
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
		if msg.Path == m.current {
			m.status = ""
			if msg.Err != nil {
				return m, showDialog(errorDialog(msg.Err))
			}
		}
		return m, nil

	case FolderChangedMsg:
		return m.folderChanged(msg)

	case WatchErrorMsg:
		if m.watcher == nil || msg.Gen != m.watcher.Gen() {
			return m, nil
		}
		logging.Logger.WithError(msg.Err).Warn("folder watch stopped")
		_ = m.watcher.Close()
		m.watcher = nil
		m.status = "Folder watch stopped"
		return m, nil
	}

	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msgKey, keys.Open):
		return m.startPicking()
	case key.Matches(msgKey, keys.Prev):
		return m.jump(-1)
	case key.Matches(msgKey, keys.Next):
		return m.jump(1)
	case key.Matches(msgKey, keys.Play):
		return m.play()
	case key.Matches(msgKey, keys.Undo):
		return m.undo()
	}

	if label, ok := m.cfg.LabelForKey(msgKey.String()); ok {
		return m.move(label)
	}
	return m, nil
}

func (m SortModel) jump(delta int) (SortModel, tea.Cmd) {
	if m.session == nil || m.session.Empty() {
		return m, nil
	}

	edge := m.session.Jump(delta)
	cmds := []tea.Cmd{m.loadCmd()}
	if edge != sorter.NotClamped {
		cmds = append(cmds, showDialog(outOfRangeDialog(edge)))
	}
	m = m.showCurrent()
	return m, tea.Batch(cmds...)
}

func (m SortModel) play() (SortModel, tea.Cmd) {
	if m.current == "" {
		return m, nil
	}
	stopPlayback(m.stopPlay)
	var cmd tea.Cmd
	m.stopPlay, cmd = startPlayback(m.player, m.current)
	if m.stopPlay != nil {
		m.status = "Playing " + filepath.Base(m.current)
	}
	return m, cmd
}

// move sorts the current clip into label's folder and shows the next one.
func (m SortModel) move(label config.Label) (SortModel, tea.Cmd) {
	if m.session == nil || m.session.Empty() {
		return m, nil
	}

	// the player may hold the file open
	stopPlayback(m.stopPlay)
	m.stopPlay = nil

	crc, err := audio.CalculateCRC32(m.session.Current())
	if err != nil {
		logging.Logger.WithError(err).Warn("checksum failed")
	}

	mv, edge, err := m.session.MoveCurrent(label.Folder)
	if sorter.IsCrossDevice(err) {
		return m, showDialog(Dialog{Kind: ErrorDialog, Title: "Different filesystem", Text: err.Error()})
	}
	if err != nil {
		return m, showDialog(errorDialog(err))
	}

	entry := journal.Entry{
		Root:     m.session.Folder(),
		Source:   mv.Source,
		Target:   mv.Target,
		Label:    mv.Label,
		Position: mv.Index,
		CRC32:    crc,
		MovedAt:  time.Now(),
	}
	if m.journal != nil {
		recorded, err := m.journal.Record(context.Background(), entry)
		if err != nil {
			logging.Logger.WithError(err).Error("move not journaled")
		} else {
			entry = recorded
		}
	}
	m.history = append(m.history, entry)
	m.refreshRecent()

	m.status = fmt.Sprintf("Moved %s to %s", filepath.Base(mv.Source), label.Folder)
	if m.session.Empty() {
		m.status += ", all files sorted"
	}

	cmds := []tea.Cmd{m.loadCmd()}
	if edge != sorter.NotClamped {
		cmds = append(cmds, showDialog(outOfRangeDialog(edge)))
	}
	m = m.showCurrent()
	return m, tea.Batch(cmds...)
}

// undo reverts the latest move, through the journal when there is one.
func (m SortModel) undo() (SortModel, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	stopPlayback(m.stopPlay)
	m.stopPlay = nil

	var undone journal.Entry
	restore := func(e journal.Entry) error {
		undone = e
		return m.session.Undo(sorter.Move{Source: e.Source, Target: e.Target, Label: e.Label, Index: e.Position})
	}

	var err error
	if m.journal != nil {
		_, err = m.journal.UndoLast(context.Background(), m.session.Folder(), restore)
	} else {
		err = m.undoFromHistory(restore)
	}

	if errors.Is(err, journal.ErrNoMoves) {
		m.status = "Nothing to undo"
		return m, nil
	}
	if err != nil {
		return m, showDialog(errorDialog(err))
	}

	for i := range m.history {
		if m.history[i].Target == undone.Target && !m.history[i].Undone {
			m.history[i].Undone = true
		}
	}
	m.refreshRecent()
	m.status = fmt.Sprintf("Moved %s back from %s", filepath.Base(undone.Source), undone.Label)

	cmd := m.loadCmd()
	m = m.showCurrent()
	return m, cmd
}

func (m SortModel) undoFromHistory(restore func(journal.Entry) error) error {
	for i := len(m.history) - 1; i >= 0; i-- {
		if !m.history[i].Undone {
			return restore(m.history[i])
		}
	}
	return journal.ErrNoMoves
}

func (m SortModel) folderChanged(msg FolderChangedMsg) (SortModel, tea.Cmd) {
	if m.session == nil || m.watcher == nil || msg.Gen != m.watcher.Gen() || msg.Folder != m.session.Folder() {
		return m, nil
	}

	next := m.watcher.Next()
	before := m.session.Current()
	if err := m.session.Refresh(); err != nil {
		logging.Logger.WithError(err).Warn("refresh failed")
		return m, next
	}
	if m.session.Current() == before {
		return m, next
	}

	cmd := m.loadCmd()
	m = m.showCurrent()
	return m, tea.Batch(cmd, next)
}

func (m *SortModel) refreshRecent() {
	entries := slices.Clone(m.history)
	slices.Reverse(entries)
	m.recent.SetItems(recentItems(entries))
}

// Click handles a left click on one of the page's buttons.
func (m SortModel) Click(msg tea.MouseMsg) (SortModel, tea.Cmd) {
	if m.picking {
		return m, nil
	}
	switch {
	case zone.Get("multi-open").InBounds(msg):
		return m.startPicking()
	case zone.Get("multi-prev").InBounds(msg):
		return m.jump(-1)
	case zone.Get("multi-next").InBounds(msg):
		return m.jump(1)
	case zone.Get("multi-play").InBounds(msg):
		return m.play()
	case zone.Get("multi-undo").InBounds(msg):
		return m.undo()
	}
	for _, l := range m.cfg.Labels {
		if zone.Get(labelZone(l)).InBounds(msg) {
			return m.move(l)
		}
	}
	return m, nil
}

func labelZone(l config.Label) string {
	return "label-" + l.Folder
}

// SetSize updates the space available to the page and re-renders the spectrogram.
func (m SortModel) SetSize(width, height int) SortModel {
	m.width = width
	m.height = height
	m.recent.SetSize(width, recentRows+1)
	m.plot = renderPlot(m.spec, m.width, m.plotHeight())
	return m
}

// plotHeight is what is left after the info lines, buttons, status and recent moves.
func (m SortModel) plotHeight() int {
	return m.height - 11 - recentRows
}

// Stop ends playback and folder watching.
func (m SortModel) Stop() {
	stopPlayback(m.stopPlay)
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}

func (m SortModel) help() pageHelp {
	if m.picking {
		return pageHelp{short: pickerHelp}
	}
	return pageHelp{
		short: []key.Binding{keys.Open, keys.Prev, keys.Next, keys.Play, keys.Undo, keys.Single, keys.Quit},
		extra: labelKeys(m.cfg.Labels),
	}
}

// View implements the page body
func (m SortModel) View() string {
	if m.picking {
		return m.picker.View()
	}

	var content strings.Builder

	if m.session == nil {
		content.WriteString(MutedStyle.Render("No folder selected"))
		content.WriteString("\n\n")
		content.WriteString(button("multi-open", "Select folder"))
		return content.String()
	}

	content.WriteString(InfoStyle.Render("Folder: " + m.session.Folder()))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("%d files   %s", m.session.Len(), m.counterText()))
	content.WriteString("\n")
	content.WriteString(m.current)
	content.WriteString("\n")
	content.WriteString(durationLine(m.duration))
	content.WriteString("\n\n")

	switch {
	case m.session.Empty():
		content.WriteString(SuccessStyle.Render("✅ All files in this folder have been sorted"))
	case m.loading:
		content.WriteString(ProcessingStyle.Render("Loading spectrogram..."))
	case m.plot != "":
		content.WriteString(m.plot)
	}
	content.WriteString("\n\n")

	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		button("multi-open", "Select folder"), " ",
		button("multi-prev", "Previous file"), " ",
		button("multi-play", "Play"), " ",
		button("multi-next", "Next file"), " ",
		button("multi-undo", "Undo"),
	))
	content.WriteString("\n")
	content.WriteString(m.labelButtons())
	content.WriteString("\n")
	content.WriteString(ProcessingStyle.Render(m.status))

	if len(m.history) > 0 {
		content.WriteString("\n")
		content.WriteString(m.recent.View())
	}

	return content.String()
}

func (m SortModel) counterText() string {
	if m.session.Empty() {
		return ""
	}
	return m.session.CounterText()
}

func (m SortModel) labelButtons() string {
	buttons := make([]string, 0, 2*len(m.cfg.Labels))
	for _, l := range m.cfg.Labels {
		text := l.Name
		if text == "" {
			text = l.Folder
		}
		if l.Key != "" {
			text = fmt.Sprintf("%s (%s)", text, l.Key)
		}
		buttons = append(buttons, zone.Mark(labelZone(l), labelButtonStyle(l.Color).Render(text)), " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}
