package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/pullherald/pullherald/internal/domain/model"
	"github.com/pullherald/pullherald/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LedgerStore = (*LedgerRepo)(nil)

// LedgerRepo is the SQLite implementation of the LedgerStore port. The
// (person, pull_id) primary key enforces the one-credit-per-pull invariant
// at the storage layer too.
type LedgerRepo struct {
	db *DB
}

// NewLedgerRepo creates a new LedgerRepo backed by the given DB.
func NewLedgerRepo(db *DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

// LoadCredits returns all stored credits keyed by person login, each
// person's credits in grant order.
func (r *LedgerRepo) LoadCredits(ctx context.Context) (map[string][]model.Credit, error) {
	const query = `
		SELECT person, pull_id, expires_at
		FROM review_credits
		ORDER BY rowid
	`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load review credits: %w", err)
	}
	defer rows.Close()

	credits := make(map[string][]model.Credit)
	for rows.Next() {
		var person string
		var credit model.Credit
		if err := rows.Scan(&person, &credit.PullID, &credit.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan review credit: %w", err)
		}
		credit.ExpiresAt = credit.ExpiresAt.UTC()
		credits[person] = append(credits[person], credit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review credits: %w", err)
	}

	return credits, nil
}

// AddCredit records one credit. Re-inserting an existing (person, pull)
// pair is a no-op, matching the ledger's idempotency contract.
func (r *LedgerRepo) AddCredit(ctx context.Context, login string, credit model.Credit) error {
	const query = `
		INSERT INTO review_credits (person, pull_id, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(person, pull_id) DO NOTHING
	`

	if _, err := r.db.Writer.ExecContext(ctx, query, login, credit.PullID, credit.ExpiresAt.UTC()); err != nil {
		return fmt.Errorf("insert credit for %s on pull %d: %w", login, credit.PullID, err)
	}

	return nil
}

// DeleteExpired removes every credit whose expiry is at or before now and
// returns how many were removed.
func (r *LedgerRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	const query = `DELETE FROM review_credits WHERE expires_at <= ?`

	result, err := r.db.Writer.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired credits: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired credits: %w", err)
	}

	return int(affected), nil
}
