// Package history records top list snapshots so rank movement can be
// shown between runs.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Kinds of top list a snapshot can hold.
const (
	KindArtists = "artists"
	KindTracks  = "tracks"
)

// Store persists snapshots using SQLite
type Store struct {
	db *sql.DB
}

// Entry is one ranked item of a snapshot
type Entry struct {
	Rank int
	ID   string
	Name string
}

// Snapshot is a top list as it was at TakenAt
type Snapshot struct {
	ID        int64
	Kind      string
	TimeRange string
	TakenAt   time.Time
	Size      int     // Number of entries recorded
	Entries   []Entry // Empty when loaded by List
}

// NewStore opens the snapshot database at dbPath, creating the schema if needed
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",    // Cascade item deletes
		"PRAGMA busy_timeout = 10000", // Wait up to 10 seconds on lock
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			time_range TEXT NOT NULL,
			taken_at INTEGER NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);

		CREATE TABLE IF NOT EXISTS snapshot_items (
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (snapshot_id, rank)
		);

		CREATE INDEX IF NOT EXISTS idx_kind_taken ON snapshots(kind, time_range, taken_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a snapshot and its entries, returning the snapshot id
func (s *Store) Record(ctx context.Context, snap Snapshot) (int64, error) {
	if snap.Kind == "" {
		return 0, errors.New("snapshot kind is required")
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (kind, time_range, taken_at) VALUES (?, ?, ?)",
		snap.Kind,
		snap.TimeRange,
		snap.TakenAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO snapshot_items (snapshot_id, rank, item_id, name) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range snap.Entries {
		if _, err := stmt.ExecContext(ctx, id, e.Rank, e.ID, e.Name); err != nil {
			return 0, fmt.Errorf("failed to insert entry %d: %w", e.Rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// Latest returns the most recent snapshot of kind and timeRange with its
// entries, or nil if none has been recorded
func (s *Store) Latest(ctx context.Context, kind, timeRange string) (*Snapshot, error) {
	query := `
		SELECT id, kind, time_range, taken_at,
			(SELECT COUNT(*) FROM snapshot_items WHERE snapshot_id = snapshots.id)
		FROM snapshots
		WHERE kind = ? AND time_range = ?
		ORDER BY taken_at DESC, id DESC
		LIMIT 1
	`

	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, query, kind, timeRange))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	snap.Entries, err = s.entries(ctx, snap.ID)
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

// List returns recorded snapshots newest first, without their entries.
// An empty kind lists every kind; a limit of zero or less lists all.
func (s *Store) List(ctx context.Context, kind string, limit int) ([]Snapshot, error) {
	query := `
		SELECT id, kind, time_range, taken_at,
			(SELECT COUNT(*) FROM snapshot_items WHERE snapshot_id = snapshots.id)
		FROM snapshots
		WHERE (? = '' OR kind = ?)
		ORDER BY taken_at DESC, id DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, kind, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snaps, nil
}

// Cleanup removes snapshots taken longer than maxAge ago
func (s *Store) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	result, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE taken_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old snapshots: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

func (s *Store) entries(ctx context.Context, snapshotID int64) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT rank, item_id, name FROM snapshot_items WHERE snapshot_id = ? ORDER BY rank ASC",
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Rank, &e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var snap Snapshot
	var takenAtUnix int64

	if err := row.Scan(&snap.ID, &snap.Kind, &snap.TimeRange, &takenAtUnix, &snap.Size); err != nil {
		return Snapshot{}, err
	}

	snap.TakenAt = time.Unix(takenAtUnix, 0)
	return snap, nil
}
