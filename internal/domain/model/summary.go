package model

import "time"

// Summary is the renderable outcome of one poll cycle for one output
// channel. It stays presentation-free; the chat adapter turns it into
// whatever block layout the transport wants.
type Summary struct {
	Style       ChannelStyle
	Sections    []RepoSection
	Leaderboard Leaderboard
	// Nudge is nil when every open pull is already approved.
	Nudge       *Nudge
	GeneratedAt time.Time
}

// RepoSection groups a repository's open pulls for display.
type RepoSection struct {
	Organization    string
	Repository      string
	OpenPulls       []PullEntry
	DependabotCount int
}

// PullEntry is one open pull inside a RepoSection.
type PullEntry struct {
	Number   int
	Title    string
	URL      string
	Author   string
	IsDraft  bool
	Approved bool
	Reviews  []ReviewNote
}

// ReviewNote annotates one review under a pull entry.
type ReviewNote struct {
	Reviewer string
	State    ReviewState
	IsAuthor bool
}

// Nudge names who should pick up a review next, relative to the team
// average, and who is carrying more than their share.
type Nudge struct {
	Worst          []Person
	BelowAverageBy float64
	Best           []Person
	AboveAverageBy float64
}

// ChannelMessage is a message observed in a channel's recent history.
type ChannelMessage struct {
	ID       string
	BotOwned bool
}
