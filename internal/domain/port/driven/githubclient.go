package driven

import (
	"context"

	"github.com/pullherald/pullherald/internal/domain/model"
)

// GitHubClient defines the driven port for reading pull-request state from
// the GitHub API. Implementations drain all pages before returning.
type GitHubClient interface {
	// FetchPulls lists pull requests for the repository in the given state
	// ("open", "closed", or "all"). Returned pulls carry raw fetch fields
	// (labels, head ref) but no derived fields and no reviews.
	FetchPulls(ctx context.Context, owner, repo, state string) ([]model.Pull, error)
	// FetchReviews lists all reviews on a pull request in API order.
	FetchReviews(ctx context.Context, owner, repo string, number int) ([]model.Review, error)
	// FetchCheckRuns lists all check runs for the given ref.
	FetchCheckRuns(ctx context.Context, owner, repo, ref string) ([]model.CheckRun, error)
}
