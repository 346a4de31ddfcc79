package model

import "time"

// Credit is one unit of review-fairness accounting: a person earned it for
// activity on one pull, and it stops counting once ExpiresAt elapses.
// A given pull grants at most one credit per person.
type Credit struct {
	PullID    int64
	ExpiresAt time.Time
}

// Expired reports whether the credit no longer counts at the given instant.
func (c Credit) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
