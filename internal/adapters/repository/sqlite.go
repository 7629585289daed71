package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/okian/rematch/internal/domain/model"
)

// schema is applied on open. Asset upload order is rowid order, which is
// what the coverage fallback relies on for its deterministic last resort.
const schema = `
CREATE TABLE IF NOT EXISTS events (
	id                TEXT PRIMARY KEY,
	match_id          TEXT NOT NULL,
	minute            INTEGER NOT NULL,
	second            INTEGER NOT NULL,
	half              TEXT NOT NULL,
	recorded_offset_s REAL
);

CREATE TABLE IF NOT EXISTS video_assets (
	id                    TEXT PRIMARY KEY,
	match_id              TEXT NOT NULL,
	file_ref              TEXT NOT NULL,
	declared_start_minute INTEGER NOT NULL DEFAULT 0,
	declared_end_minute   INTEGER NOT NULL DEFAULT 0,
	duration_seconds      REAL NOT NULL DEFAULT 0,
	half_label            TEXT NOT NULL DEFAULT 'unknown'
);

CREATE INDEX IF NOT EXISTS idx_events_match ON events (match_id);
CREATE INDEX IF NOT EXISTS idx_assets_match ON video_assets (match_id);
`

// SQLiteStore is a Store backed by a SQLite catalog file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and if needed initializes) the catalog at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}

	// modernc's driver is not safe for concurrent writes on one
	// connection; a single connection serializes access.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Event returns the event with the given id.
func (s *SQLiteStore) Event(ctx context.Context, id string) (model.Event, error) {
	const q = `
		SELECT id, match_id, minute, second, half, recorded_offset_s
		FROM events WHERE id = ?`

	var (
		ev     model.Event
		half   string
		offset sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&ev.ID, &ev.MatchID, &ev.Clock.Minute, &ev.Clock.Second, &half, &offset,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Event{}, fmt.Errorf("query event %s: %w", id, err)
	}

	ev.Clock.Half = model.Half(half)
	if offset.Valid {
		ev.RecordedOffsetSeconds = &offset.Float64
	}
	return ev, nil
}

// AssetsForMatch returns the match's assets in upload order.
func (s *SQLiteStore) AssetsForMatch(ctx context.Context, matchID string) ([]model.VideoAsset, error) {
	const q = `
		SELECT id, match_id, file_ref, declared_start_minute,
		       declared_end_minute, duration_seconds, half_label
		FROM video_assets WHERE match_id = ? ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, q, matchID)
	if err != nil {
		return nil, fmt.Errorf("query assets for match %s: %w", matchID, err)
	}
	defer rows.Close()

	var assets []model.VideoAsset
	for rows.Next() {
		var (
			a     model.VideoAsset
			label string
		)
		if err := rows.Scan(
			&a.ID, &a.MatchID, &a.FileRef, &a.DeclaredStartMinute,
			&a.DeclaredEndMinute, &a.DurationSeconds, &label,
		); err != nil {
			return nil, fmt.Errorf("scan asset row: %w", err)
		}
		a.HalfLabel = model.Half(label)
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset rows: %w", err)
	}

	return assets, nil
}

// AddEvent inserts or replaces an event record.
func (s *SQLiteStore) AddEvent(ctx context.Context, ev model.Event) error {
	const q = `
		INSERT OR REPLACE INTO events
			(id, match_id, minute, second, half, recorded_offset_s)
		VALUES (?, ?, ?, ?, ?, ?)`

	var offset sql.NullFloat64
	if ev.RecordedOffsetSeconds != nil {
		offset = sql.NullFloat64{Float64: *ev.RecordedOffsetSeconds, Valid: true}
	}

	if _, err := s.db.ExecContext(ctx, q,
		ev.ID, ev.MatchID, ev.Clock.Minute, ev.Clock.Second, string(ev.Clock.Half), offset,
	); err != nil {
		return fmt.Errorf("insert event %s: %w", ev.ID, err)
	}
	return nil
}

// AddAsset inserts or replaces a video asset record.
func (s *SQLiteStore) AddAsset(ctx context.Context, a model.VideoAsset) error {
	const q = `
		INSERT OR REPLACE INTO video_assets
			(id, match_id, file_ref, declared_start_minute,
			 declared_end_minute, duration_seconds, half_label)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, q,
		a.ID, a.MatchID, a.FileRef, a.DeclaredStartMinute,
		a.DeclaredEndMinute, a.DurationSeconds, string(a.HalfLabel),
	); err != nil {
		return fmt.Errorf("insert asset %s: %w", a.ID, err)
	}
	return nil
}

// Close closes the catalog database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
