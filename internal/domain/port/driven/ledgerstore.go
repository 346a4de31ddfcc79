package driven

import (
	"context"
	"time"

	"github.com/pullherald/pullherald/internal/domain/model"
)

// LedgerStore defines the driven port for persisting review-fairness
// credits. Each mutation is durable before the call returns.
type LedgerStore interface {
	// LoadCredits returns all stored credits keyed by person login, each
	// person's credits in grant order.
	LoadCredits(ctx context.Context) (map[string][]model.Credit, error)
	AddCredit(ctx context.Context, login string, credit model.Credit) error
	// DeleteExpired removes every credit whose expiry is at or before now
	// and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
