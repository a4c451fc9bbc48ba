package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/lepinkainen/clipsorter/audio"
)

// ErrFileChanged is returned when a moved file no longer matches its recorded checksum.
var ErrFileChanged = errors.New("file changed since it was moved")

// UndoLast reverts the newest move in root. restore puts the file back; the entry is
// only marked undone when it succeeds. A target whose CRC32 differs from the recorded
// one is left alone. A recorded CRC32 of 0 means no checksum was taken and skips the check.
func (j *Journal) UndoLast(ctx context.Context, root string, restore func(Entry) error) (Entry, error) {
	e, err := j.Last(ctx, root)
	if err != nil {
		return Entry{}, err
	}

	if e.CRC32 != 0 {
		crc, err := audio.CalculateCRC32(e.Target)
		if err != nil {
			return Entry{}, fmt.Errorf("failed to checksum %s: %w", e.Target, err)
		}
		if crc != e.CRC32 {
			return Entry{}, fmt.Errorf("%w: %s (recorded %08X, now %08X)", ErrFileChanged, e.Target, e.CRC32, crc)
		}
	}

	if err := restore(e); err != nil {
		return Entry{}, err
	}
	if err := j.MarkUndone(ctx, e.ID); err != nil {
		return Entry{}, err
	}
	e.Undone = true
	return e, nil
}
