package ui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/lepinkainen/clipsorter/audio"
	"github.com/lepinkainen/clipsorter/config"
	"github.com/lepinkainen/clipsorter/journal"
)

// Page is one of the two review pages.
type Page int

const (
	SinglePage Page = iota
	MultiPage
)

func (p Page) String() string {
	if p == MultiPage {
		return "Multiple files"
	}
	return "Single file"
}

// tabs and help line around the page body
const chromeHeight = 5

var zoneOnce sync.Once

// Options configures the TUI.
type Options struct {
	Config *config.Config
	// Journal records moves for undo. Without it undo only covers the running session.
	Journal *journal.Journal
	// Player plays clips. Without it p shows an error.
	Player audio.Player
	// Path opens a file on the Single page or a folder on the Multiple page.
	Path string
	// Page is shown first when Path is empty.
	Page Page
}

// AppModel is the root model: page tabs, the active page and any open dialog.
type AppModel struct {
	cfg *config.Config

	page   Page
	single SingleModel
	multi  SortModel

	// dialogs waiting to be dismissed, first one shown
	dialogs []Dialog
	help    help.Model

	initCmd tea.Cmd

	width    int
	height   int
	quitting bool
}

// NewApp builds the root model.
func NewApp(opts Options) AppModel {
	zoneOnce.Do(zone.NewGlobal)

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	loader := NewLoader(cfg)

	m := AppModel{
		cfg:    cfg,
		page:   opts.Page,
		single: newSingleModel(cfg, loader, opts.Player),
		multi:  newSortModel(cfg, loader, opts.Player, opts.Journal),
		help:   help.New(),
	}

	if opts.Path != "" {
		if info, err := os.Stat(opts.Path); err == nil && info.IsDir() {
			m.page = MultiPage
			m.multi, m.initCmd = m.multi.OpenFolder(opts.Path)
		} else {
			m.page = SinglePage
			m.single, m.initCmd = m.single.OpenPath(opts.Path)
		}
	}

	return m
}

// Init implements tea.Model
func (m AppModel) Init() tea.Cmd {
	return m.initCmd
}

// Update implements tea.Model
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.single = m.single.SetSize(msg.Width, msg.Height-chromeHeight)
		m.multi = m.multi.SetSize(msg.Width, msg.Height-chromeHeight)
		return m, nil

	case ShowDialogMsg:
		if m.cfg.NativeDialogs {
			return m, nativeDialog(msg.Dialog)
		}
		m.dialogs = append(m.dialogs, msg.Dialog)
		return m, nil

	case DialogClosedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	// background results go to both pages, each keeps only its own
	var singleCmd, multiCmd tea.Cmd
	m.single, singleCmd = m.single.Update(msg)
	m.multi, multiCmd = m.multi.Update(msg)
	return m, tea.Batch(singleCmd, multiCmd)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if len(m.dialogs) > 0 {
		if key.Matches(msg, keys.Close) {
			m.dialogs = m.dialogs[1:]
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Single):
		m.page = SinglePage
		return m, nil
	case key.Matches(msg, keys.Multi):
		m.page = MultiPage
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	if m.page == MultiPage {
		m.multi, cmd = m.multi.Update(msg)
	} else {
		m.single, cmd = m.single.Update(msg)
	}
	return m, cmd
}

func (m AppModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if len(m.dialogs) > 0 {
		m.dialogs = m.dialogs[1:]
		return m, nil
	}

	switch {
	case zone.Get("tab-single").InBounds(msg):
		m.page = SinglePage
		return m, nil
	case zone.Get("tab-multi").InBounds(msg):
		m.page = MultiPage
		return m, nil
	case zone.Get("tab-quit").InBounds(msg):
		return m.quit()
	}

	var cmd tea.Cmd
	if m.page == MultiPage {
		m.multi, cmd = m.multi.Click(msg)
	} else {
		m.single, cmd = m.single.Click(msg)
	}
	return m, cmd
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Close()
	return m, tea.Quit
}

// Close stops playback and folder watching.
func (m AppModel) Close() {
	m.single.Stop()
	m.multi.Stop()
}

// Page returns the page being shown.
func (m AppModel) Page() Page { return m.page }

// Dialog returns the dialog being shown, if any.
func (m AppModel) Dialog() (Dialog, bool) {
	if len(m.dialogs) == 0 {
		return Dialog{}, false
	}
	return m.dialogs[0], true
}

// View implements tea.Model
func (m AppModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if d, ok := m.Dialog(); ok {
		box := d.View()
		if m.width > 0 && m.height > 0 {
			box = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
		}
		return zone.Scan(box)
	}

	var body, helpView string
	if m.page == MultiPage {
		body = m.multi.View()
		helpView = m.help.View(m.multi.help())
	} else {
		body = m.single.View()
		helpView = m.help.View(m.single.help())
	}

	var content strings.Builder
	content.WriteString(m.renderTabs())
	content.WriteString("\n")
	content.WriteString(body)
	content.WriteString("\n")
	content.WriteString(helpView)

	return zone.Scan(content.String())
}

func (m AppModel) renderTabs() string {
	tab := func(id, text string, active bool) string {
		style := tabStyle
		if active {
			style = activeTabStyle
		}
		return zone.Mark(id, style.Render(text))
	}

	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		tab("tab-single", SinglePage.String(), m.page == SinglePage),
		tab("tab-multi", MultiPage.String(), m.page == MultiPage),
		tab("tab-quit", "Quit", false),
	)
}
