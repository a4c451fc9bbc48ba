package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ncruces/zenity"
)

// Picker chooses a file (Single page) or a folder (Multiple page) inside the terminal.
type Picker struct {
	page  Page
	dirs  bool
	model filepicker.Model
}

// newPicker starts browsing at start. Folder pickers list folders only.
func newPicker(page Page, start string, extensions []string, height int) (Picker, tea.Cmd) {
	fp := filepicker.New()
	fp.CurrentDirectory = pickerStart(start)
	fp.ShowHidden = false
	fp.AutoHeight = false
	fp.Height = max(height, 5)

	p := Picker{page: page, dirs: page == MultiPage}
	if p.dirs {
		fp.DirAllowed = true
		fp.FileAllowed = false
	} else {
		fp.DirAllowed = false
		fp.FileAllowed = true
		fp.AllowedTypes = extensions
	}
	p.model = fp

	return p, p.model.Init()
}

func pickerStart(start string) string {
	if start == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		return "."
	}
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		return filepath.Dir(start)
	}
	return start
}

// Update forwards msg to the file picker and turns a selection into a PickedMsg.
// esc cancels; in folder mode "." picks the folder being browsed.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return p, picked(PickedMsg{Page: p.page, Canceled: true})
		case ".":
			if p.dirs {
				return p, picked(PickedMsg{Page: p.page, Path: p.model.CurrentDirectory})
			}
		}
	}

	var cmd tea.Cmd
	p.model, cmd = p.model.Update(msg)

	if ok, path := p.model.DidSelectFile(msg); ok {
		return p, tea.Batch(cmd, picked(PickedMsg{Page: p.page, Path: path}))
	}
	return p, cmd
}

// View renders the browsed folder and its entries.
func (p Picker) View() string {
	var b strings.Builder
	what := "an audio file"
	if p.dirs {
		what = "a folder (. selects the current one)"
	}
	b.WriteString(InfoStyle.Render("Select " + what))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render(p.model.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(p.model.View())
	return b.String()
}

func picked(msg PickedMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// nativePick opens the desktop file or folder chooser.
func nativePick(page Page, start string, extensions []string) tea.Cmd {
	return func() tea.Msg {
		opts := []zenity.Option{zenity.Filename(pickerStart(start) + string(filepath.Separator))}

		if page == MultiPage {
			opts = append(opts, zenity.Title("Select folder"), zenity.Directory())
		} else {
			patterns := make([]string, len(extensions))
			for i, ext := range extensions {
				patterns[i] = "*" + ext
			}
			opts = append(opts,
				zenity.Title("Select file"),
				zenity.FileFilters{{Name: "Audio files", Patterns: patterns}},
			)
		}

		path, err := zenity.SelectFile(opts...)
		if errors.Is(err, zenity.ErrCanceled) {
			return PickedMsg{Page: page, Canceled: true}
		}
		return PickedMsg{Page: page, Path: path, Err: err}
	}
}
