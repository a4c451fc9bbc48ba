package sorter

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoFiles is returned when a folder holds no audio files.
	ErrNoFiles = errors.New("no audio files found")
	// ErrTargetExists is returned instead of overwriting a file.
	ErrTargetExists = errors.New("target already exists")
)

// swapped in tests to simulate EXDEV
var renameFunc = os.Rename

// CrossDeviceError reports a move between filesystems. Files are never copied
// and deleted, the operator has to pick a folder on the same filesystem.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cannot move %q to %q across filesystems: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is a CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// rename wraps os.Rename and marks EXDEV failures as CrossDeviceError.
func rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return fmt.Errorf("failed to move %s: %w", src, err)
	}
	return nil
}
