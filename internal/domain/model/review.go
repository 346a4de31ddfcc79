package model

import "time"

// Review represents a single review event on a pull request. SubmittedAt
// falls back to the pull's OpenedAt when the API omits it.
type Review struct {
	Reviewer    string
	State       ReviewState
	SubmittedAt time.Time
}
