package ui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"

	"github.com/lepinkainen/clipsorter/journal"
)

// moveItem is one line in the recent moves list
type moveItem struct {
	entry journal.Entry
}

func (i moveItem) FilterValue() string { return i.entry.Source }
func (i moveItem) Title() string {
	status := "✓"
	if i.entry.Undone {
		status = "↶"
	}
	return fmt.Sprintf("%s %s → %s", status, filepath.Base(i.entry.Source), i.entry.Label)
}
func (i moveItem) Description() string { return i.entry.MovedAt.Format("15:04:05") }

// newRecentList creates the compact, non-interactive list of recent moves.
func newRecentList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Recent moves"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	l.Styles.Title = MutedStyle.Bold(true)
	return l
}

func recentItems(entries []journal.Entry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = moveItem{entry: e}
	}
	return items
}
