package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pullherald/pullherald/internal/domain/model"
	"github.com/pullherald/pullherald/internal/domain/port/driven"
)

// creditLifetime is how long one review credit counts toward the ledger.
const creditLifetime = 30 * 24 * time.Hour

// ErrNoTrackedPeople is returned when a ledger is constructed with an empty
// tracked-person set. That is a configuration error, not a runtime case.
var ErrNoTrackedPeople = errors.New("fairness ledger requires at least one tracked person")

// FairnessLedger accumulates a time-decaying count of review credits per
// tracked person. Every mutation is persisted through the LedgerStore
// before the mutating call returns; the in-memory state is a mirror.
type FairnessLedger struct {
	store   driven.LedgerStore
	people  *model.People
	policy  model.CreditPolicy
	credits map[string][]model.Credit
	now     func() time.Time
}

// NewFairnessLedger creates a ledger over the given store and loads the
// persisted credits. policy selects which review states earn reviewer
// credit; author credit is always granted.
func NewFairnessLedger(ctx context.Context, store driven.LedgerStore, people *model.People, policy model.CreditPolicy) (*FairnessLedger, error) {
	if people == nil || people.Len() == 0 {
		return nil, ErrNoTrackedPeople
	}

	credits, err := store.LoadCredits(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading review credits: %w", err)
	}
	if credits == nil {
		credits = make(map[string][]model.Credit)
	}

	return &FairnessLedger{
		store:   store,
		people:  people,
		policy:  policy,
		credits: credits,
		now:     time.Now,
	}, nil
}

// TrackPull grants credits for one pull: one to its author and one to each
// reviewer with qualifying review activity, tracked persons only. Credits
// are idempotent per (person, pull), so duplicate review entries and
// repeated cycles never double-count.
func (l *FairnessLedger) TrackPull(ctx context.Context, pull model.Pull) error {
	if _, ok := l.people.Lookup(pull.Author); ok {
		if err := l.grant(ctx, pull.Author, pull.ID, pull.OpenedAt); err != nil {
			return err
		}
	}

	for _, review := range pull.Reviews {
		if l.policy == model.CreditPolicyApprovedOnly && review.State != model.ReviewStateApproved {
			continue
		}
		if _, ok := l.people.Lookup(review.Reviewer); !ok {
			continue
		}
		if err := l.grant(ctx, review.Reviewer, pull.ID, review.SubmittedAt); err != nil {
			return err
		}
	}

	return nil
}

// grant records one credit unless the person already holds one for the pull.
// The store write happens before the in-memory mirror is touched, so a
// failed write leaves the ledger consistent.
func (l *FairnessLedger) grant(ctx context.Context, login string, pullID int64, earnedAt time.Time) error {
	for _, credit := range l.credits[login] {
		if credit.PullID == pullID {
			return nil
		}
	}

	if earnedAt.IsZero() {
		earnedAt = l.now()
	}
	credit := model.Credit{PullID: pullID, ExpiresAt: earnedAt.Add(creditLifetime)}

	if err := l.store.AddCredit(ctx, login, credit); err != nil {
		return fmt.Errorf("persisting credit for %s on pull %d: %w", login, pullID, err)
	}

	l.credits[login] = append(l.credits[login], credit)
	return nil
}

// PurgeExpired removes every expired credit from the store and the mirror,
// returning how many were dropped.
func (l *FairnessLedger) PurgeExpired(ctx context.Context) (int, error) {
	now := l.now()

	removed, err := l.store.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("purging expired credits: %w", err)
	}

	for login, credits := range l.credits {
		kept := credits[:0]
		for _, credit := range credits {
			if !credit.Expired(now) {
				kept = append(kept, credit)
			}
		}
		l.credits[login] = kept
	}

	return removed, nil
}

// Leaderboard ranks all tracked persons by current non-expired credit
// count, descending. Ties keep the tracked-person declaration order.
func (l *FairnessLedger) Leaderboard() model.Leaderboard {
	now := l.now()
	persons := l.people.All()

	ranking := make([]model.RankEntry, 0, len(persons))
	var total int
	for _, person := range persons {
		var count int
		for _, credit := range l.credits[person.Login] {
			if !credit.Expired(now) {
				count++
			}
		}
		ranking = append(ranking, model.RankEntry{Login: person.Login, Count: count})
		total += count
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})

	lb := model.Leaderboard{
		Ranking: ranking,
		Average: float64(total) / float64(len(persons)),
	}

	lb.BestReviewCount = ranking[0].Count
	lb.WorstReviewCount = ranking[len(ranking)-1].Count
	for _, entry := range ranking {
		if entry.Count == lb.BestReviewCount {
			lb.BestLogins = append(lb.BestLogins, entry.Login)
		}
		if entry.Count == lb.WorstReviewCount {
			lb.WorstLogins = append(lb.WorstLogins, entry.Login)
		}
	}

	return lb
}
