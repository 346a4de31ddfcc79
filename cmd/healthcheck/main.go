// Command healthcheck exits non-zero when the bot's heartbeat is stale.
// Wired as a container HEALTHCHECK so a wedged poll loop gets the process
// restarted by the supervisor.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	sqliteadapter "github.com/pullherald/pullherald/internal/adapter/driven/sqlite"
)

// staleAfter is the longest the watchdog tolerates between heartbeats.
// Cycles normally beat every poll interval, well inside this bound.
const staleAfter = 5 * time.Minute

func main() {
	os.Exit(check())
}

func check() int {
	dbPath := os.Getenv("PULLHERALD_DB_PATH")
	if dbPath == "" {
		dbPath = "pullherald.db"
	}

	db, err := sqliteadapter.NewDB(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthcheck: open database: %v\n", err)
		return 1
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	beat, err := sqliteadapter.NewHeartbeatRepo(db).LastBeat(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthcheck: read heartbeat: %v\n", err)
		return 1
	}

	if beat.IsZero() {
		fmt.Fprintln(os.Stderr, "healthcheck: no heartbeat recorded yet")
		return 1
	}

	if age := time.Since(beat); age > staleAfter {
		fmt.Fprintf(os.Stderr, "healthcheck: heartbeat is %s old\n", age.Round(time.Second))
		return 1
	}

	return 0
}
