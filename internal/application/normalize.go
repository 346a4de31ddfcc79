// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pullherald/pullherald/internal/domain/model"
	"github.com/pullherald/pullherald/internal/domain/port/driven"
)

const (
	// holdLabel marks a pull that should not be surfaced even when green.
	holdLabel = "on hold"
	// closedRetention bounds how long closed pulls stay in the snapshot.
	closedRetention = 30 * 24 * time.Hour
)

// Normalizer turns raw API pull data into the canonical per-cycle snapshot:
// derived approval, check, and hold state computed, closed pulls outside the
// retention window dropped.
type Normalizer struct {
	gh                driven.GitHubClient
	requiredApprovals int
	retention         time.Duration
	now               func() time.Time
}

// NewNormalizer creates a Normalizer. requiredApprovals is the number of
// APPROVED reviews needed before a pull counts as approved.
func NewNormalizer(gh driven.GitHubClient, requiredApprovals int) *Normalizer {
	return &Normalizer{
		gh:                gh,
		requiredApprovals: requiredApprovals,
		retention:         closedRetention,
		now:               time.Now,
	}
}

// NormalizeRepo fetches and normalizes every retained pull for one
// repository. A pull or review fetch failure aborts the whole repository for
// this cycle; a check-run fetch failure only marks that pull failing.
func (n *Normalizer) NormalizeRepo(ctx context.Context, repo model.RepoRef) ([]model.Pull, error) {
	raw, err := n.gh.FetchPulls(ctx, repo.Owner, repo.Name, "all")
	if err != nil {
		return nil, fmt.Errorf("fetching pulls for %s: %w", repo, err)
	}

	cutoff := n.now().Add(-n.retention)
	pulls := make([]model.Pull, 0, len(raw))

	for _, pull := range raw {
		// Open pulls are retained regardless of age.
		if pull.State != model.PullStateOpen && pull.OpenedAt.Before(cutoff) {
			continue
		}

		if pull.State == model.PullStateOpen {
			reviews, err := n.gh.FetchReviews(ctx, repo.Owner, repo.Name, pull.Number)
			if err != nil {
				return nil, fmt.Errorf("fetching reviews for %s#%d: %w", repo, pull.Number, err)
			}
			pull.Reviews = normalizeReviews(reviews, pull.OpenedAt)

			runs, err := n.gh.FetchCheckRuns(ctx, repo.Owner, repo.Name, pull.HeadRef)
			if err != nil {
				// Unknown build health is treated as failing rather than
				// silently marking risky code safe.
				slog.Error("check run fetch failed", "repo", repo.String(), "pull", pull.Number, "error", err)
				pull.CheckState = model.CheckStateFailing
			} else {
				pull.CheckState = DeriveCheckState(runs)
			}
		} else {
			pull.CheckState = model.CheckStatePending
		}

		pull.Approved = countApprovals(pull.Reviews) >= n.requiredApprovals
		pull.OnHold = hasHoldLabel(pull.Labels)
		pulls = append(pulls, pull)
	}

	return pulls, nil
}

// DeriveCheckState aggregates check-run conclusions: passing when every run
// concluded "success" (vacuously passing with zero runs), failing when any
// run concluded "failure", pending otherwise.
func DeriveCheckState(runs []model.CheckRun) model.CheckState {
	passing := true
	for _, run := range runs {
		switch run.Conclusion {
		case "failure":
			return model.CheckStateFailing
		case "success":
		default:
			passing = false
		}
	}
	if passing {
		return model.CheckStatePassing
	}
	return model.CheckStatePending
}

// normalizeReviews fills in the submission-time fallback for reviews the API
// returned without a timestamp.
func normalizeReviews(reviews []model.Review, openedAt time.Time) []model.Review {
	out := make([]model.Review, 0, len(reviews))
	for _, review := range reviews {
		if review.SubmittedAt.IsZero() {
			review.SubmittedAt = openedAt
		}
		out = append(out, review)
	}
	return out
}

func countApprovals(reviews []model.Review) int {
	var count int
	for _, review := range reviews {
		if review.State == model.ReviewStateApproved {
			count++
		}
	}
	return count
}

func hasHoldLabel(labels []string) bool {
	for _, label := range labels {
		if strings.EqualFold(label, holdLabel) {
			return true
		}
	}
	return false
}
