package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/lepinkainen/clipsorter/journal"
	"github.com/lepinkainen/clipsorter/sorter"
	"github.com/lepinkainen/clipsorter/types"
	"github.com/lepinkainen/clipsorter/ui"
)

// UndoCmd moves the most recently sorted clips of a folder back out of their label folders.
type UndoCmd struct {
	Folder string `arg:"" name:"folder" help:"Reviewed folder" type:"existingdir" default:"."`
	Count  int    `help:"Number of moves to undo" default:"1"`
}

func (cmd *UndoCmd) Run(appCtx *types.AppContext) error {
	j, err := journal.Open(appCtx.GetConfig().JournalPath)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	undone, err := undoMoves(context.Background(), j, cmd.Folder, cmd.Count)
	for _, e := range undone {
		fmt.Printf("%s\n", ui.SuccessStyle.Render(fmt.Sprintf("↶ %s back from %s", filepath.Base(e.Source), e.Label)))
	}

	switch {
	case errors.Is(err, journal.ErrNoMoves):
		if len(undone) == 0 {
			fmt.Printf("%s\n", ui.InfoStyle.Render("Nothing to undo"))
		}
		return nil
	case err != nil:
		return fmt.Errorf("undo stopped after %d move(s): %w", len(undone), err)
	}
	return nil
}

// undoMoves reverts up to count moves, newest first, stopping at the first failure.
func undoMoves(ctx context.Context, j *journal.Journal, root string, count int) ([]journal.Entry, error) {
	restore := func(e journal.Entry) error {
		return sorter.Restore(sorter.Move{Source: e.Source, Target: e.Target, Label: e.Label, Index: e.Position})
	}

	var undone []journal.Entry
	for range max(count, 1) {
		e, err := j.UndoLast(ctx, root, restore)
		if err != nil {
			return undone, err
		}
		undone = append(undone, e)
	}
	return undone, nil
}
