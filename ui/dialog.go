package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ncruces/zenity"

	"github.com/lepinkainen/clipsorter/logging"
	"github.com/lepinkainen/clipsorter/sorter"
)

// DialogKind selects the dialog icon and colour.
type DialogKind int

const (
	InfoDialog DialogKind = iota
	WarningDialog
	ErrorDialog
)

// Dialog is a modal message the operator has to dismiss.
type Dialog struct {
	Kind  DialogKind
	Title string
	Text  string
}

func tooLongDialog() Dialog {
	return Dialog{Kind: ErrorDialog, Title: "Error", Text: "File is too long!"}
}

func outOfRangeDialog(edge sorter.ClampEdge) Dialog {
	return Dialog{Kind: WarningDialog, Title: "Out of range", Text: edge.Message()}
}

func errorDialog(err error) Dialog {
	return Dialog{Kind: ErrorDialog, Title: "Error", Text: err.Error()}
}

func showDialog(d Dialog) tea.Cmd {
	return func() tea.Msg { return ShowDialogMsg{Dialog: d} }
}

// nativeDialog shows d through the desktop's dialog tool and blocks until it is closed.
func nativeDialog(d Dialog) tea.Cmd {
	return func() tea.Msg {
		opts := []zenity.Option{zenity.Title(d.Title)}

		var err error
		switch d.Kind {
		case ErrorDialog:
			err = zenity.Error(d.Text, opts...)
		case WarningDialog:
			err = zenity.Warning(d.Text, opts...)
		default:
			err = zenity.Info(d.Text, opts...)
		}
		if err != nil && !errors.Is(err, zenity.ErrCanceled) {
			logging.Logger.WithError(err).Warn("native dialog failed")
		}
		return DialogClosedMsg{}
	}
}

// View renders the dialog box.
func (d Dialog) View() string {
	var title lipgloss.Style
	var border lipgloss.Color
	switch d.Kind {
	case ErrorDialog:
		title, border = ErrorStyle, lipgloss.Color("196")
	case WarningDialog:
		title, border = WarningStyle, lipgloss.Color("214")
	default:
		title, border = InfoStyle.Bold(true), lipgloss.Color("33")
	}

	var content strings.Builder
	content.WriteString(title.Render(d.Title))
	content.WriteString("\n\n")
	content.WriteString(d.Text)
	content.WriteString("\n\n")
	content.WriteString(MutedStyle.Render("Press enter to close"))

	return dialogStyle.BorderForeground(border).Render(content.String())
}
