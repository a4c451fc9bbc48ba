package journal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/clipsorter/audio"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestOpen_CreatesSchema(t *testing.T) {
	j := openTemp(t)

	var name string
	err := j.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='moves'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "moves", name)

	_, err = uuid.Parse(j.Session())
	assert.NoError(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j1, err := Open(path)
	require.NoError(t, err)
	_, err = j1.Record(context.Background(), Entry{Root: "/clips", Source: "/clips/a.wav", Target: "/clips/TO/a.wav", Label: "TO"})
	require.NoError(t, err)
	require.NoError(t, j1.Close())

	// migrations are already applied the second time
	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()

	assert.NotEqual(t, j1.Session(), j2.Session())
	entries, err := j2.List(context.Background(), "/clips", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecordAndLast(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()

	_, err := j.Last(ctx, "/clips")
	assert.ErrorIs(t, err, ErrNoMoves)

	first, err := j.Record(ctx, Entry{Root: "/clips/", Source: "/clips/a.wav", Target: "/clips/TruePos/a.wav", Label: "TruePos", CRC32: 0xDEADBEEF})
	require.NoError(t, err)
	second, err := j.Record(ctx, Entry{Root: "/clips", Source: "/clips/b.wav", Target: "/clips/FalsePos/b.wav", Label: "FalsePos", Position: 3})
	require.NoError(t, err)
	_, err = j.Record(ctx, Entry{Root: "/other", Source: "/other/c.wav", Target: "/other/TO/c.wav", Label: "TO"})
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, j.Session(), first.Session)
	assert.WithinDuration(t, time.Now(), first.MovedAt, time.Minute)

	last, err := j.Last(ctx, "/clips")
	require.NoError(t, err)
	assert.Equal(t, second, last)

	require.NoError(t, j.MarkUndone(ctx, second.ID))
	last, err = j.Last(ctx, "/clips")
	require.NoError(t, err)
	assert.Equal(t, first.ID, last.ID)
	assert.Equal(t, uint32(0xDEADBEEF), last.CRC32)
	assert.Equal(t, "/clips", last.Root)
}

func TestMarkUndone_Unknown(t *testing.T) {
	j := openTemp(t)
	assert.Error(t, j.MarkUndone(context.Background(), 42))
}

func TestList(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()

	for _, name := range []string{"a.wav", "b.wav", "c.wav"} {
		_, err := j.Record(ctx, Entry{Root: "/clips", Source: "/clips/" + name, Target: "/clips/TO/" + name, Label: "TO"})
		require.NoError(t, err)
	}

	all, err := j.List(ctx, "/clips", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "/clips/c.wav", all[0].Source)

	limited, err := j.List(ctx, "/clips", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := j.List(ctx, "/nothing", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUndoLast(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	dir := t.TempDir()

	target := filepath.Join(dir, "TruePos", "a.wav")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("clip data"), 0o644))
	crc, err := audio.CalculateCRC32(target)
	require.NoError(t, err)

	_, err = j.Record(ctx, Entry{Root: dir, Source: filepath.Join(dir, "a.wav"), Target: target, Label: "TruePos", CRC32: crc})
	require.NoError(t, err)

	// a failing restore leaves the entry in place
	boom := errors.New("boom")
	_, err = j.UndoLast(ctx, dir, func(Entry) error { return boom })
	assert.ErrorIs(t, err, boom)

	var restored Entry
	e, err := j.UndoLast(ctx, dir, func(e Entry) error {
		restored = e
		return nil
	})
	require.NoError(t, err)
	assert.True(t, e.Undone)
	assert.Equal(t, target, restored.Target)

	_, err = j.UndoLast(ctx, dir, func(Entry) error { return nil })
	assert.ErrorIs(t, err, ErrNoMoves)
}

func TestUndoLast_ChangedFile(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	dir := t.TempDir()

	target := filepath.Join(dir, "TO", "a.wav")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("edited"), 0o644))

	_, err := j.Record(ctx, Entry{Root: dir, Source: filepath.Join(dir, "a.wav"), Target: target, Label: "TO", CRC32: 1})
	require.NoError(t, err)

	called := false
	_, err = j.UndoLast(ctx, dir, func(Entry) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrFileChanged)
	assert.False(t, called)
}

func TestUndoLast_NoChecksum(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	dir := t.TempDir()

	target := filepath.Join(dir, "FN", "a.wav")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("clip data"), 0o644))

	// the checksum failed when the move was recorded
	_, err := j.Record(ctx, Entry{Root: dir, Source: filepath.Join(dir, "a.wav"), Target: target, Label: "FN", CRC32: 0})
	require.NoError(t, err)

	called := false
	e, err := j.UndoLast(ctx, dir, func(Entry) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, e.Undone)
}
