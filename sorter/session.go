// Package sorter keeps the multi-file review session: the scanned clip list,
// the current position in it, and the moves into label folders.
package sorter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/lepinkainen/clipsorter/audio"
	"github.com/lepinkainen/clipsorter/logging"
)

// Scanner lists the audio files under a folder.
type Scanner interface {
	Scan(folder string) ([]string, error)
}

// DirScanner scans with audio.FindAudioFiles.
type DirScanner struct {
	Options audio.ScanOptions
}

// Scan implements Scanner.
func (s DirScanner) Scan(folder string) ([]string, error) {
	return audio.FindAudioFiles(folder, s.Options)
}

// ClampEdge tells whether a position change ran off either end of the list.
type ClampEdge int

const (
	NotClamped ClampEdge = iota
	ClampedFirst
	ClampedLast
)

// Message is the text shown to the operator for a clamped jump.
func (c ClampEdge) Message() string {
	switch c {
	case ClampedFirst:
		return "Tried to jump beyond list. Set to 1st file"
	case ClampedLast:
		return "Tried to jump beyond list. Set to last file"
	}
	return ""
}

// Move records one file moved into a label folder.
type Move struct {
	Source string
	Target string
	Label  string
	// Index is the list position the file had before the move.
	Index int
}

// Session is a folder under review.
// index is always within [0, len(files)) while files is non-empty.
type Session struct {
	folder  string
	files   []string
	index   int
	scanner Scanner
}

// Open scans folder and starts at the first file.
func Open(folder string, scanner Scanner) (*Session, error) {
	folder = filepath.Clean(folder)

	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("folder not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", folder)
	}

	files, err := scanner.Scan(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", folder, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, folder)
	}

	logging.Logger.WithField("folder", folder).WithField("files", len(files)).Info("opened folder")

	return &Session{folder: folder, files: files, scanner: scanner}, nil
}

// Folder returns the folder under review.
func (s *Session) Folder() string { return s.folder }

// Files returns a copy of the current list.
func (s *Session) Files() []string { return slices.Clone(s.files) }

// Len returns the number of files left to sort.
func (s *Session) Len() int { return len(s.files) }

// Index returns the zero-based position of the current file.
func (s *Session) Index() int { return s.index }

// Empty reports whether every file has been sorted.
func (s *Session) Empty() bool { return len(s.files) == 0 }

// Current returns the current file, or "" when the list is empty.
func (s *Session) Current() string {
	if len(s.files) == 0 {
		return ""
	}
	return s.files[s.index]
}

// CounterText is the one-based position shown above the spectrogram.
func (s *Session) CounterText() string {
	return fmt.Sprintf("File %d", s.index+1)
}

// Jump moves the current position by delta, clamping at both ends.
func (s *Session) Jump(delta int) ClampEdge {
	if len(s.files) == 0 {
		return NotClamped
	}
	return s.setIndex(s.index + delta)
}

func (s *Session) setIndex(i int) ClampEdge {
	switch {
	case i < 0:
		s.index = 0
		return ClampedFirst
	case i >= len(s.files):
		s.index = len(s.files) - 1
		return ClampedLast
	}
	s.index = i
	return NotClamped
}

// MakeLabelFolder creates the label folder under the reviewed folder if needed.
func (s *Session) MakeLabelFolder(label string) (string, error) {
	return makeLabelFolder(s.folder, label)
}

func makeLabelFolder(root, label string) (string, error) {
	dir := filepath.Join(root, label)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create label folder %s: %w", dir, err)
	}
	return dir, nil
}

// MoveCurrent moves the current file into the label folder and drops it from the list.
// The next file becomes current. When the moved file was the last one the position
// clamps back and ClampedLast is returned.
func (s *Session) MoveCurrent(label string) (Move, ClampEdge, error) {
	if len(s.files) == 0 {
		return Move{}, NotClamped, ErrNoFiles
	}

	m, err := MoveFile(s.folder, s.files[s.index], label)
	if err != nil {
		return Move{}, NotClamped, err
	}
	m.Index = s.index

	s.files = slices.Delete(s.files, s.index, s.index+1)
	if len(s.files) == 0 {
		s.index = 0
		return m, NotClamped, nil
	}
	return m, s.setIndex(s.index), nil
}

// MoveFile moves src into the label folder under root, keeping its base name.
// An existing file in the label folder is never overwritten.
func MoveFile(root, src, label string) (Move, error) {
	dir, err := makeLabelFolder(root, label)
	if err != nil {
		return Move{}, err
	}

	dst := filepath.Join(dir, filepath.Base(src))
	if err := ensureFree(dst); err != nil {
		return Move{}, err
	}
	if err := rename(src, dst); err != nil {
		return Move{}, err
	}

	logging.Logger.WithField("source", src).WithField("label", label).Info("moved clip")
	return Move{Source: src, Target: dst, Label: label}, nil
}

// Restore moves a file back out of its label folder without touching any session.
func Restore(m Move) error {
	if _, err := os.Stat(m.Target); err != nil {
		return fmt.Errorf("moved file not found: %w", err)
	}
	if err := ensureFree(m.Source); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.Source), 0o755); err != nil {
		return fmt.Errorf("failed to recreate %s: %w", filepath.Dir(m.Source), err)
	}
	if err := rename(m.Target, m.Source); err != nil {
		return err
	}

	logging.Logger.WithField("source", m.Source).WithField("label", m.Label).Info("undid move")
	return nil
}

// Undo restores a moved file and makes it current again at its old position.
func (s *Session) Undo(m Move) error {
	if err := Restore(m); err != nil {
		return err
	}

	pos := min(max(m.Index, 0), len(s.files))
	s.files = slices.Insert(s.files, pos, m.Source)
	s.index = pos
	return nil
}

// Refresh rescans the folder, keeping the current file selected if it still exists.
// An empty result is not an error, the session just has nothing left to show.
func (s *Session) Refresh() error {
	current := s.Current()

	files, err := s.scanner.Scan(s.folder)
	if err != nil {
		return fmt.Errorf("failed to rescan %s: %w", s.folder, err)
	}
	s.files = files

	if len(files) == 0 {
		s.index = 0
		return nil
	}
	if i := slices.Index(files, current); i >= 0 {
		s.index = i
		return nil
	}
	s.setIndex(s.index)
	return nil
}

func ensureFree(path string) error {
	_, err := os.Lstat(path)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrTargetExists, path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}
	return nil
}
