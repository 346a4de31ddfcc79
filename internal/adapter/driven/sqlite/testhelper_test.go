package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"
)

// setupTestDB opens a named shared in-memory database so the writer and
// reader pools see the same data, runs the migrations, and registers
// cleanup. The name comes from t.Name() so parallel tests stay isolated.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Percent-encode the test name: subtest names contain '/' and would
	// otherwise be read as path segments or query noise in the file: DSN.
	name := url.PathEscape(t.Name())
	// journal_mode is omitted; WAL does not apply to in-memory databases.
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)",
		name,
	)

	open := func(maxConns int) *sql.DB {
		pool, err := sql.Open("sqlite", dsn)
		if err != nil {
			t.Fatalf("open test db: %v", err)
		}
		pool.SetMaxOpenConns(maxConns)
		if err := pool.PingContext(context.Background()); err != nil {
			_ = pool.Close()
			t.Fatalf("ping test db: %v", err)
		}
		return pool
	}

	db := &DB{Writer: open(1), Reader: open(4), path: dsn}
	t.Cleanup(func() { _ = db.Close() })

	if err := RunMigrations(db.Writer); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return db
}
