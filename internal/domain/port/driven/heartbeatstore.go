package driven

import (
	"context"
	"time"
)

// HeartbeatStore defines the driven port for the liveness timestamp the
// external watchdog reads. One beat per poll cycle.
type HeartbeatStore interface {
	Beat(ctx context.Context, at time.Time) error
	// LastBeat returns the zero time when no beat was ever recorded.
	LastBeat(ctx context.Context) (time.Time, error)
}
