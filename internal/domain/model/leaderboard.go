package model

// RankEntry is one row of the fairness leaderboard.
type RankEntry struct {
	Login string
	Count int
}

// Leaderboard is the result of ranking all tracked persons by their current
// non-expired review credits.
type Leaderboard struct {
	// Ranking is sorted descending by count; ties keep the tracked-person
	// declaration order.
	Ranking []RankEntry
	// Average is the mean credit count across all tracked persons.
	Average float64
	// BestLogins and WorstLogins are the full tie groups at the maximum and
	// minimum counts.
	BestLogins       []string
	BestReviewCount  int
	WorstLogins      []string
	WorstReviewCount int
}
