package ui

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/lepinkainen/clipsorter/logging"
)

// settle is how long a burst of file events is collected into one refresh.
const settle = 300 * time.Millisecond

// lastWatch numbers watchers so messages from a replaced one can be told apart.
var lastWatch atomic.Uint64

// Watcher reports changes to the clips in a folder being sorted.
// Label folders directly below the root are not watched.
type Watcher struct {
	folder   string
	skipDirs []string
	gen      uint64
	w        *fsnotify.Watcher
}

// Watch starts watching folder and its subfolders.
func Watch(folder string, skipDirs []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	watcher := &Watcher{
		folder:   filepath.Clean(folder),
		skipDirs: skipDirs,
		gen:      lastWatch.Add(1),
		w:        w,
	}
	if err := watcher.addTree(watcher.folder); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", folder, err)
	}

	return watcher, nil
}

// Gen identifies this watcher in the messages it sends.
func (w *Watcher) Gen() uint64 { return w.gen }

// addTree watches dir and every folder below it, leaving out label folders.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if w.skipped(path) {
			return filepath.SkipDir
		}
		return w.w.Add(path)
	})
}

func (w *Watcher) skipped(path string) bool {
	return path != w.folder && filepath.Dir(path) == w.folder && slices.Contains(w.skipDirs, filepath.Base(path))
}

// handle registers folders created after the watch started.
func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(ev.Name); err != nil {
		logging.Logger.WithError(err).WithField("path", ev.Name).Warn("new folder not watched")
	}
}

// Next waits for the next batch of changes. It returns nil once the watcher is closed.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.w.Events:
				if !ok {
					return nil
				}
				if ev.Op == fsnotify.Chmod {
					continue
				}
				logging.Logger.WithField("event", ev.String()).Debug("folder changed")
				w.handle(ev)
				if err := w.drain(); err != nil {
					return WatchErrorMsg{Err: err, Gen: w.gen}
				}
				return FolderChangedMsg{Folder: w.folder, Gen: w.gen}
			case err, ok := <-w.w.Errors:
				if !ok {
					return nil
				}
				return WatchErrorMsg{Err: err, Gen: w.gen}
			}
		}
	}
}

// drain swallows events until the folder has been quiet for settle.
// An overflow or other watch error ends it early.
func (w *Watcher) drain() error {
	timer := time.NewTimer(settle)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
			timer.Reset(settle)
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			return err
		case <-timer.C:
			return nil
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.w.Close()
}
