package cmd

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/clipsorter/audio"
	"github.com/lepinkainen/clipsorter/config"
	"github.com/lepinkainen/clipsorter/journal"
	"github.com/lepinkainen/clipsorter/logging"
	"github.com/lepinkainen/clipsorter/types"
	"github.com/lepinkainen/clipsorter/ui"
)

// UICmd opens the review TUI. A file opens the Single page, a folder the Multiple page.
type UICmd struct {
	Path string `arg:"" optional:"" name:"path" help:"Audio file or folder to open" type:"path"`
}

func (cmd *UICmd) Run(appCtx *types.AppContext) error {
	return runTUI(appCtx, cmd.Path, ui.SinglePage)
}

// ViewCmd shows one clip on the Single page.
type ViewCmd struct {
	File string `arg:"" name:"file" help:"Audio file to show" type:"existingfile"`
}

func (cmd *ViewCmd) Run(appCtx *types.AppContext) error {
	return runTUI(appCtx, cmd.File, ui.SinglePage)
}

// SortCmd opens a folder on the Multiple page.
type SortCmd struct {
	Folder string `arg:"" name:"folder" help:"Folder of clips to sort" type:"existingdir"`
}

func (cmd *SortCmd) Run(appCtx *types.AppContext) error {
	return runTUI(appCtx, cmd.Folder, ui.MultiPage)
}

func runTUI(appCtx *types.AppContext, path string, page ui.Page) error {
	cfg := appCtx.GetConfig()

	opts := ui.Options{Config: cfg, Path: path, Page: page, Player: openPlayer(cfg)}
	if j := openJournal(cfg); j != nil {
		defer func() { _ = j.Close() }()
		opts.Journal = j
	}

	model := ui.NewApp(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if m, ok := final.(ui.AppModel); ok {
		m.Close()
	}
	return err
}

// openJournal returns nil when the journal cannot be opened; undo then only
// covers the running session.
func openJournal(cfg *config.Config) *journal.Journal {
	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		logging.Logger.WithError(err).Warn("journal unavailable, undo limited to this session")
		return nil
	}
	return j
}

func openPlayer(cfg *config.Config) audio.Player {
	player, err := audio.NewPlayer(cfg.Player)
	if err != nil {
		logging.Logger.WithError(err).Warn("no audio player")
		return nil
	}
	return player
}
