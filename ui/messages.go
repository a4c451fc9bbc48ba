package ui

import "github.com/lepinkainen/clipsorter/spectrogram"

// TUI message types for background work

// ClipLoadedMsg carries a decoded and transformed clip back to the page that asked for it.
type ClipLoadedMsg struct {
	Path     string
	Duration float64
	Spec     *spectrogram.Spectrogram // nil when Err is set
	Err      error
}

// PlayDoneMsg reports the end of playback.
type PlayDoneMsg struct {
	Path string
	Err  error
}

// PickedMsg is a path chosen through a picker. Canceled is set when the
// operator closed the picker without choosing.
type PickedMsg struct {
	Page     Page
	Path     string
	Canceled bool
	Err      error
}

// FolderChangedMsg is sent when files appear or disappear in the watched folder.
type FolderChangedMsg struct {
	Folder string
	Gen    uint64
}

// WatchErrorMsg reports a failing folder watch. Watching stops after it.
type WatchErrorMsg struct {
	Err error
	Gen uint64
}

// ShowDialogMsg asks the root model to show a dialog.
type ShowDialogMsg struct {
	Dialog Dialog
}

// DialogClosedMsg is sent when a dialog was dismissed.
type DialogClosedMsg struct{}
