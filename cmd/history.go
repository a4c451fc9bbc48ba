package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/lepinkainen/clipsorter/journal"
	"github.com/lepinkainen/clipsorter/types"
	"github.com/lepinkainen/clipsorter/ui"
)

// HistoryCmd lists the journaled moves of a folder, newest first.
type HistoryCmd struct {
	Folder string `arg:"" name:"folder" help:"Reviewed folder" type:"existingdir" default:"."`
	Limit  int    `help:"Number of moves to show (0 for all)" default:"20"`
}

func (cmd *HistoryCmd) Run(appCtx *types.AppContext) error {
	j, err := journal.Open(appCtx.GetConfig().JournalPath)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	entries, err := j.List(context.Background(), cmd.Folder, cmd.Limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("No moves recorded for %s", cmd.Folder)))
		return nil
	}

	fmt.Printf("%s\n\n", ui.HeaderStyle.Render(fmt.Sprintf("Moves in %s", cmd.Folder)))
	for _, e := range entries {
		fmt.Println(formatEntry(e))
	}
	return nil
}

func formatEntry(e journal.Entry) string {
	line := fmt.Sprintf("%s  %-30s → %s", e.MovedAt.Format("2006-01-02 15:04:05"), filepath.Base(e.Source), e.Label)
	if e.Undone {
		return ui.MutedStyle.Render(line + "  (undone)")
	}
	return line
}
