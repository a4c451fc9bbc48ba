package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Messages sent by render workers

type WorkerStartedMsg struct {
	WorkerID int
	Path     string
}

type WorkerCompletedMsg struct {
	WorkerID int
	Path     string
	Output   string
	Skipped  bool // longer than the duration limit
	Err      error
}

// RenderDoneMsg is sent once every worker has finished.
type RenderDoneMsg struct{}

// renderLogEntry is one line in the rendered files list
type renderLogEntry struct {
	path    string
	output  string
	skipped bool
	err     string
}

func (f renderLogEntry) FilterValue() string { return f.path }
func (f renderLogEntry) Title() string       { return filepath.Base(f.path) }
func (f renderLogEntry) Description() string {
	switch {
	case f.err != "":
		return fmt.Sprintf("❌ %s", f.err)
	case f.skipped:
		return "⏭️  too long, skipped"
	}
	return fmt.Sprintf("✓ → %s", f.output)
}

type workerState struct {
	path   string
	status string // "idle", "rendering", "done"
}

// RenderProgressModel shows batch spectrogram rendering across workers.
type RenderProgressModel struct {
	version string

	total    int
	finished int
	failed   int
	workers  []workerState
	entries  []renderLogEntry

	overall progress.Model
	files   list.Model

	width    int
	height   int
	done     bool
	quitting bool
}

// NewRenderProgressModel creates the progress view for numFiles clips over numWorkers workers.
func NewRenderProgressModel(version string, numFiles, numWorkers int) RenderProgressModel {
	workers := make([]workerState, numWorkers)
	for i := range workers {
		workers[i].status = "idle"
	}

	files := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	files.Title = "Rendered clips"
	files.SetShowHelp(false)
	files.SetFilteringEnabled(false)

	return RenderProgressModel{
		version: version,
		total:   numFiles,
		workers: workers,
		overall: progress.New(progress.WithDefaultGradient()),
		files:   files,
	}
}

// Interrupted reports whether the operator quit before rendering finished.
func (m RenderProgressModel) Interrupted() bool { return m.quitting && !m.done }

// Finished returns how many clips have been handled so far.
func (m RenderProgressModel) Finished() int { return m.finished }

// Failed returns how many clips could not be rendered.
func (m RenderProgressModel) Failed() int { return m.failed }

// Init implements tea.Model
func (m RenderProgressModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m RenderProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.overall.Width = max(msg.Width-30, 10)
		m.files.SetSize(msg.Width-4, msg.Height/2)

	case WorkerStartedMsg:
		if msg.WorkerID >= 0 && msg.WorkerID < len(m.workers) {
			m.workers[msg.WorkerID] = workerState{path: msg.Path, status: "rendering"}
		}

	case WorkerCompletedMsg:
		if msg.WorkerID >= 0 && msg.WorkerID < len(m.workers) {
			m.workers[msg.WorkerID] = workerState{status: "done"}
		}

		entry := renderLogEntry{path: msg.Path, output: msg.Output, skipped: msg.Skipped}
		if msg.Err != nil {
			entry.err = msg.Err.Error()
			m.failed++
		}
		m.finished++
		m.entries = append(m.entries, entry)

		items := make([]list.Item, len(m.entries))
		for i, e := range m.entries {
			items[i] = e
		}
		cmd := m.files.SetItems(items)
		m.files.Select(len(items) - 1)
		return m, cmd

	case RenderDoneMsg:
		m.done = true
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m RenderProgressModel) View() string {
	if m.quitting {
		if m.done {
			return ""
		}
		return "Shutting down...\n"
	}

	header := HeaderStyle.Render(fmt.Sprintf("Clip Sorter %s", m.version))

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.finished) / float64(m.total)
	}
	overallView := fmt.Sprintf("Overall Progress: %s (%d/%d)", m.overall.ViewAs(percent), m.finished, m.total)

	workerViews := []string{"Worker Status:"}
	for i, w := range m.workers {
		status := fmt.Sprintf("Worker %d: ", i+1)
		if w.status == "rendering" {
			status += ProcessingStyle.Render("rendering ") + filepath.Base(w.path)
		} else {
			status += MutedStyle.Render(w.status)
		}
		workerViews = append(workerViews, status)
	}

	sections := []string{
		header,
		overallView,
		strings.Join(workerViews, "\n"),
		m.files.View(),
		"Controls: [q] Quit",
	}

	return strings.Join(sections, "\n\n")
}
