// Package journal records every clip move in a SQLite database so a move can be
// undone later, from the TUI or the undo command.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lepinkainen/clipsorter/logging"
)

// ErrNoMoves is returned when a folder has nothing left to undo.
var ErrNoMoves = errors.New("no moves to undo")

// Entry is one recorded move.
type Entry struct {
	ID      int64
	Session string
	Root    string
	Source  string
	Target  string
	Label   string
	// Position is the list index the file had before it was moved.
	Position int
	CRC32    uint32
	MovedAt  time.Time
	Undone   bool
}

// Journal is an open move journal. Entries written through it share one session id.
type Journal struct {
	db      *sql.DB
	session string
}

// Open opens or creates the journal database at path and migrates it.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	// one writer, and the TUI and commands are single-threaded towards the journal
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure journal: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	j := &Journal{db: db, session: uuid.NewString()}
	logging.Logger.WithField("path", path).WithField("session", j.session).Debug("opened journal")
	return j, nil
}

// Session returns the id stamped on entries recorded through j.
func (j *Journal) Session() string { return j.session }

// Close closes the database.
func (j *Journal) Close() error { return j.db.Close() }

// Record stores a move and returns it with ID, Session and MovedAt filled in.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	e.Session = j.session
	if e.MovedAt.IsZero() {
		e.MovedAt = time.Now()
	}

	res, err := j.db.ExecContext(ctx, `
		INSERT INTO moves (session_id, root, source, target, label, position, crc32, moved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Session, filepath.Clean(e.Root), e.Source, e.Target, e.Label, e.Position, int64(e.CRC32), e.MovedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record move: %w", err)
	}

	e.ID, err = res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read move id: %w", err)
	}
	e.Root = filepath.Clean(e.Root)
	e.MovedAt = time.UnixMilli(e.MovedAt.UnixMilli())
	return e, nil
}

// Last returns the most recent move in root that has not been undone.
func (j *Journal) Last(ctx context.Context, root string) (Entry, error) {
	row := j.db.QueryRowContext(ctx, selectEntry+`
		WHERE root = ? AND undone = 0
		ORDER BY id DESC
		LIMIT 1`, filepath.Clean(root))

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNoMoves
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read last move: %w", err)
	}
	return e, nil
}

// MarkUndone flags a move as reverted.
func (j *Journal) MarkUndone(ctx context.Context, id int64) error {
	res, err := j.db.ExecContext(ctx, `UPDATE moves SET undone = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark move %d undone: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("move %d not found", id)
	}
	return nil
}

// List returns the newest moves in root first. limit <= 0 returns all of them.
func (j *Journal) List(ctx context.Context, root string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := j.db.QueryContext(ctx, selectEntry+`
		WHERE root = ?
		ORDER BY id DESC
		LIMIT ?`, filepath.Clean(root), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list moves: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read move: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const selectEntry = `
	SELECT id, session_id, root, source, target, label, position, crc32, moved_at, undone
	FROM moves`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	var crc, movedAt int64
	err := s.Scan(&e.ID, &e.Session, &e.Root, &e.Source, &e.Target, &e.Label, &e.Position, &crc, &movedAt, &e.Undone)
	if err != nil {
		return Entry{}, err
	}
	e.CRC32 = uint32(crc)
	e.MovedAt = time.UnixMilli(movedAt)
	return e, nil
}
