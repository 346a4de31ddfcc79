package sqlite

import (
	"context"
	"fmt"

	"github.com/pullherald/pullherald/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.NotableStore = (*NotableRepo)(nil)

// NotableRepo is the SQLite implementation of the NotableStore port.
// Each partition key holds an independent link set.
type NotableRepo struct {
	db *DB
}

// NewNotableRepo creates a new NotableRepo backed by the given DB.
func NewNotableRepo(db *DB) *NotableRepo {
	return &NotableRepo{db: db}
}

// Load returns every link stored under the partition, in lexical order.
func (r *NotableRepo) Load(ctx context.Context, partition string) ([]string, error) {
	const query = `
		SELECT link
		FROM notable_links
		WHERE partition_key = ?
		ORDER BY link
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, partition)
	if err != nil {
		return nil, fmt.Errorf("load notable links for %q: %w", partition, err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("scan notable link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notable links: %w", err)
	}

	return links, nil
}

// Save replaces the partition's stored links wholesale inside one
// transaction, so a crash never leaves a half-written set.
func (r *NotableRepo) Save(ctx context.Context, partition string, links []string) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin notable save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notable_links WHERE partition_key = ?`, partition); err != nil {
		return fmt.Errorf("clear notable links for %q: %w", partition, err)
	}

	const insert = `INSERT INTO notable_links (partition_key, link) VALUES (?, ?)`
	for _, link := range links {
		if _, err := tx.ExecContext(ctx, insert, partition, link); err != nil {
			return fmt.Errorf("insert notable link %q: %w", link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notable save: %w", err)
	}

	return nil
}
