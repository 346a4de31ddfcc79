package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pullherald/pullherald/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.HeartbeatStore = (*HeartbeatRepo)(nil)

// HeartbeatRepo is the SQLite implementation of the HeartbeatStore port.
// It keeps a single row that the healthcheck binary reads.
type HeartbeatRepo struct {
	db *DB
}

// NewHeartbeatRepo creates a new HeartbeatRepo backed by the given DB.
func NewHeartbeatRepo(db *DB) *HeartbeatRepo {
	return &HeartbeatRepo{db: db}
}

// Beat records the liveness timestamp.
func (r *HeartbeatRepo) Beat(ctx context.Context, at time.Time) error {
	const query = `
		INSERT INTO heartbeat (id, beat_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET beat_at = excluded.beat_at
	`

	if _, err := r.db.Writer.ExecContext(ctx, query, at.UTC()); err != nil {
		return fmt.Errorf("record heartbeat: %w", err)
	}

	return nil
}

// LastBeat returns the most recent liveness timestamp, or the zero time
// when no beat was ever recorded.
func (r *HeartbeatRepo) LastBeat(ctx context.Context) (time.Time, error) {
	const query = `SELECT beat_at FROM heartbeat WHERE id = 1`

	var at time.Time
	err := r.db.Reader.QueryRowContext(ctx, query).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read heartbeat: %w", err)
	}

	return at.UTC(), nil
}
