package model

import (
	"math"
	"time"
)

// UnknownAuthor is the sentinel login used when the API omits a pull's user.
const UnknownAuthor = "unknown"

// UnknownNumber is the sentinel for a pull whose number the API omitted.
// It sorts after every real pull number.
const UnknownNumber = math.MaxInt

// Pull represents one pull request as observed during a poll cycle. Each
// cycle replaces the full record for a given ID; only ID is stable across
// cycles.
type Pull struct {
	ID           int64
	Organization string
	Repository   string
	Number       int
	Title        string
	Author       string
	URL          string
	State        PullState
	IsDraft      bool
	OnHold       bool
	Approved     bool
	CheckState   CheckState
	OpenedAt     time.Time
	MergedAt     *time.Time
	Reviews      []Review

	// Transient fetch fields, not part of the derived record.
	HeadRef string
	Labels  []string
}

// FullRepoName returns the "owner/repo" form of the pull's location.
func (p Pull) FullRepoName() string {
	return p.Organization + "/" + p.Repository
}

// OpenedWithin reports whether the pull was opened inside the trailing
// window ending at now.
func (p Pull) OpenedWithin(window time.Duration, now time.Time) bool {
	return p.OpenedAt.After(now.Add(-window))
}
