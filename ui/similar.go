package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/clipsorter/audio"
	"github.com/lepinkainen/clipsorter/config"
	"github.com/lepinkainen/clipsorter/journal"
	"github.com/lepinkainen/clipsorter/logging"
	"github.com/lepinkainen/clipsorter/sorter"
)

// SimilarGroup is a set of clips whose spectrograms look alike.
type SimilarGroup struct {
	Files    []string
	Selected []bool // which files the next label move applies to
}

// SimilarMovedMsg reports a finished label move of the selected clips.
type SimilarMovedMsg struct {
	Label string
	Moved []string
	Err   error // first failure, files before it were moved
}

// SimilarModel lets the operator label whole groups of similar clips at once.
type SimilarModel struct {
	root    string
	labels  []config.Label
	journal *journal.Journal
	player  audio.Player

	groups       []SimilarGroup
	currentGroup int
	currentFile  int

	width  int
	height int

	confirming   bool
	pendingLabel config.Label
	pendingFiles []string
	status       string
	showHelp     bool

	stopPlay context.CancelFunc
	quitting bool
}

// SimilarOptions configures the similar clips review.
type SimilarOptions struct {
	// Root is the folder the label folders are created in.
	Root    string
	Config  *config.Config
	Journal *journal.Journal
	Player  audio.Player
}

// NewSimilarModel creates the review for groups of similar clips.
func NewSimilarModel(groups [][]string, opts SimilarOptions) SimilarModel {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	m := SimilarModel{
		root:     opts.Root,
		labels:   cfg.Labels,
		journal:  opts.Journal,
		player:   opts.Player,
		showHelp: true,
	}
	for _, files := range groups {
		m.groups = append(m.groups, SimilarGroup{
			Files:    slices.Clone(files),
			Selected: make([]bool, len(files)),
		})
	}
	return m
}

// Groups returns the groups still under review.
func (m SimilarModel) Groups() []SimilarGroup { return m.groups }

// Init implements tea.Model
func (m SimilarModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m SimilarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming {
			return m.handleConfirmationInput(msg)
		}
		return m.handleNormalInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SimilarMovedMsg:
		m.handleMoved(msg)

	case PlayDoneMsg:
		m.status = ""
		if msg.Err != nil {
			m.status = ErrorStyle.Render(msg.Err.Error())
		}
	}

	return m, nil
}

func (m SimilarModel) handleNormalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m.quit()
	}
	if len(m.groups) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "h", "?":
		m.showHelp = !m.showHelp

	case "up", "k":
		if m.currentFile > 0 {
			m.currentFile--
		}

	case "down", "j":
		if m.currentFile < len(m.groups[m.currentGroup].Files)-1 {
			m.currentFile++
		}

	case "left":
		if m.currentGroup > 0 {
			m.currentGroup--
			m.currentFile = 0
		}

	case "right":
		if m.currentGroup < len(m.groups)-1 {
			m.currentGroup++
			m.currentFile = 0
		}

	case " ":
		group := &m.groups[m.currentGroup]
		group.Selected[m.currentFile] = !group.Selected[m.currentFile]

	case "a":
		group := &m.groups[m.currentGroup]
		for i := range group.Selected {
			group.Selected[i] = true
		}

	case "c":
		group := &m.groups[m.currentGroup]
		for i := range group.Selected {
			group.Selected[i] = false
		}

	case "s":
		if m.currentGroup < len(m.groups)-1 {
			m.currentGroup++
			m.currentFile = 0
		} else {
			return m.quit()
		}

	case "p":
		return m.play()

	default:
		for _, l := range m.labels {
			if l.Key != "" && msg.String() == l.Key {
				return m.handleLabelCommand(l)
			}
		}
	}

	return m, nil
}

func (m SimilarModel) handleConfirmationInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirming = false
		// the player may hold one of the files open
		stopPlayback(m.stopPlay)
		m.stopPlay = nil
		return m, m.moveSelected()

	case "n", "N", "ctrl+c", "esc":
		m.confirming = false
		m.pendingFiles = nil
	}

	return m, nil
}

// handleLabelCommand asks to move the selected clips of all groups, or the
// clip under the cursor when nothing is selected.
func (m SimilarModel) handleLabelCommand(l config.Label) (tea.Model, tea.Cmd) {
	var selected []string
	for _, group := range m.groups {
		for i, sel := range group.Selected {
			if sel {
				selected = append(selected, group.Files[i])
			}
		}
	}
	if len(selected) == 0 {
		selected = []string{m.groups[m.currentGroup].Files[m.currentFile]}
	}

	m.pendingLabel = l
	m.pendingFiles = selected
	m.confirming = true
	return m, nil
}

func (m SimilarModel) moveSelected() tea.Cmd {
	root, label, files, j := m.root, m.pendingLabel.Folder, m.pendingFiles, m.journal
	return func() tea.Msg {
		res := SimilarMovedMsg{Label: label}
		for _, src := range files {
			crc, err := audio.CalculateCRC32(src)
			if err != nil {
				logging.Logger.WithError(err).Warn("checksum failed")
			}

			mv, err := sorter.MoveFile(root, src, label)
			if err != nil {
				res.Err = err
				return res
			}
			res.Moved = append(res.Moved, src)

			if j == nil {
				continue
			}
			_, err = j.Record(context.Background(), journal.Entry{
				Root:    root,
				Source:  mv.Source,
				Target:  mv.Target,
				Label:   mv.Label,
				CRC32:   crc,
				MovedAt: time.Now(),
			})
			if err != nil {
				logging.Logger.WithError(err).Error("move not journaled")
			}
		}
		return res
	}
}

func (m *SimilarModel) handleMoved(msg SimilarMovedMsg) {
	m.pendingFiles = nil
	if msg.Err != nil {
		m.status = ErrorStyle.Render(msg.Err.Error())
	} else {
		m.status = SuccessStyle.Render(fmt.Sprintf("Moved %d file(s) to %s", len(msg.Moved), msg.Label))
	}
	if len(msg.Moved) == 0 {
		return
	}

	var kept []SimilarGroup
	removedBefore := 0
	for gi, group := range m.groups {
		var files []string
		var selected []bool
		for i, f := range group.Files {
			if slices.Contains(msg.Moved, f) {
				continue
			}
			files = append(files, f)
			selected = append(selected, group.Selected[i])
		}
		// a single clip left has nothing to compare against
		if len(files) <= 1 {
			if gi < m.currentGroup {
				removedBefore++
			}
			continue
		}
		kept = append(kept, SimilarGroup{Files: files, Selected: selected})
	}

	m.groups = kept
	m.currentGroup -= removedBefore
	if len(m.groups) == 0 {
		m.currentGroup, m.currentFile = 0, 0
		return
	}
	m.currentGroup = min(max(m.currentGroup, 0), len(m.groups)-1)
	m.currentFile = min(m.currentFile, len(m.groups[m.currentGroup].Files)-1)
}

func (m SimilarModel) play() (tea.Model, tea.Cmd) {
	path := m.groups[m.currentGroup].Files[m.currentFile]
	stopPlayback(m.stopPlay)
	var cmd tea.Cmd
	m.stopPlay, cmd = startPlayback(m.player, path)
	if m.stopPlay == nil {
		m.status = ErrorStyle.Render(errNoPlayer.Error())
		return m, nil
	}
	m.status = ProcessingStyle.Render("Playing " + filepath.Base(path))
	return m, cmd
}

func (m SimilarModel) quit() (tea.Model, tea.Cmd) {
	stopPlayback(m.stopPlay)
	m.quitting = true
	return m, tea.Quit
}

// View implements tea.Model
func (m SimilarModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if len(m.groups) == 0 {
		return m.renderNoGroups()
	}

	if m.confirming {
		return m.renderConfirmationDialog()
	}

	return m.renderMainView()
}

func (m SimilarModel) renderNoGroups() string {
	var content strings.Builder
	content.WriteString(SuccessStyle.MarginTop(2).MarginLeft(2).Render("✅ All similar groups have been processed!\n\nPress 'q' to quit."))
	if m.status != "" {
		content.WriteString("\n\n")
		content.WriteString(m.status)
	}
	return content.String()
}

func (m SimilarModel) renderConfirmationDialog() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("Confirm Move"))
	content.WriteString("\n\n")
	content.WriteString(fmt.Sprintf("Move %d file(s) to %s?\n\n",
		len(m.pendingFiles), filepath.Join(m.root, m.pendingLabel.Folder)))

	for _, file := range m.pendingFiles {
		content.WriteString(fmt.Sprintf("  • %s\n", file))
	}

	content.WriteString("\n")
	content.WriteString("Press 'y' to confirm, 'n' to cancel")

	return content.String()
}

func (m SimilarModel) renderMainView() string {
	var content strings.Builder

	header := fmt.Sprintf("Clip Sorter - Similar Clips (Group %d of %d)", m.currentGroup+1, len(m.groups))
	content.WriteString(HeaderStyle.Render(header))
	content.WriteString("\n\n")

	group := m.groups[m.currentGroup]
	content.WriteString(InfoStyle.Render(fmt.Sprintf("%d similar clips", len(group.Files))))
	content.WriteString("\n\n")

	content.WriteString(m.renderFileList(group))
	content.WriteString("\n")

	if m.status != "" {
		content.WriteString(m.status)
		content.WriteString("\n\n")
	}

	if m.showHelp {
		content.WriteString(m.renderHelp())
	} else {
		content.WriteString("Press 'h' for help")
	}

	return content.String()
}

func (m SimilarModel) renderFileList(group SimilarGroup) string {
	var content strings.Builder

	displayPaths := optimizePaths(group.Files)

	for i, file := range group.Files {
		var line strings.Builder

		if group.Selected[i] {
			line.WriteString("[✓] ")
		} else {
			line.WriteString("[ ] ")
		}

		name := filepath.Base(file)
		style := lipgloss.NewStyle()
		if group.Selected[i] {
			style = SuccessStyle
		}
		if i == m.currentFile {
			style = style.Reverse(true)
		}
		line.WriteString(style.Render(name))

		line.WriteString(fmt.Sprintf(" (%s)", displayPaths[i]))
		content.WriteString(line.String())
		content.WriteString("\n")
	}

	return content.String()
}

// optimizePaths drops the path prefix all paths share, keeping its last
// directory so each line still shows where the clip lives.
func optimizePaths(paths []string) []string {
	if len(paths) <= 1 {
		return paths
	}

	parts := make([][]string, len(paths))
	shortest := -1
	for i, path := range paths {
		parts[i] = strings.Split(filepath.Clean(path), string(filepath.Separator))
		if shortest < 0 || len(parts[i]) < shortest {
			shortest = len(parts[i])
		}
	}

	common := 0
	for common < shortest {
		first := parts[0][common]
		match := true
		for _, p := range parts[1:] {
			if p[common] != first {
				match = false
				break
			}
		}
		if !match {
			break
		}
		common++
	}

	result := make([]string, len(paths))
	for i, p := range parts {
		start := common
		if start > 0 && len(p) > start {
			start--
		}
		if start >= len(p) {
			result[i] = paths[i]
			continue
		}
		result[i] = filepath.Join(p[start:]...)
		if start > 0 {
			result[i] = "..." + string(filepath.Separator) + result[i]
		}
	}

	return result
}

func (m SimilarModel) renderHelp() string {
	help := []string{
		"",
		"Navigation:",
		"  ↑/↓ or j/k   Navigate clips in current group",
		"  ←/→          Previous/Next group",
		"",
		"Selection:",
		"  Space        Toggle clip selection",
		"  a            Select all clips in group",
		"  c            Clear all selections in group",
		"",
		"Actions:",
	}
	for _, l := range m.labels {
		if l.Key == "" {
			continue
		}
		help = append(help, fmt.Sprintf("  %-12s Move selected clips to %s", l.Key, l.Folder))
	}
	help = append(help,
		"  p            Play clip under cursor",
		"  s            Skip current group",
		"  h/?          Toggle this help",
		"  q            Quit",
		"",
	)

	return strings.Join(help, "\n")
}
