// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/pullherald/pullherald/internal/domain/model"
	"github.com/pullherald/pullherald/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FetchPulls retrieves pull requests for the repository filtered by state
// ("open", "closed", or "all"). It drains all pages before returning and
// maps go-github types to domain model types. Derived fields (approval,
// check state, hold state) are left for the normalizer.
func (c *Client) FetchPulls(ctx context.Context, owner, repo, state string) ([]model.Pull, error) {
	opts := &gh.PullRequestListOptions{
		State:     state,
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var allPulls []model.Pull

	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s/%s (page %d): %w", owner, repo, opts.Page, err)
		}

		logRateLimit(resp, owner+"/"+repo, opts.Page, len(prs))

		for _, pr := range prs {
			allPulls = append(allPulls, mapPull(pr, owner, repo))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allPulls == nil {
		allPulls = []model.Pull{}
	}

	return allPulls, nil
}

// FetchReviews retrieves all reviews for a pull request in API order.
// It handles pagination automatically.
func (c *Client) FetchReviews(ctx context.Context, owner, repo string, number int) ([]model.Review, error) {
	opts := &gh.ListOptions{PerPage: 100}
	var allReviews []model.Review

	for {
		reviews, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing reviews for %s/%s#%d (page %d): %w", owner, repo, number, opts.Page, err)
		}

		for _, r := range reviews {
			allReviews = append(allReviews, mapReview(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allReviews, nil
}

// FetchCheckRuns retrieves all check runs for the given ref (commit SHA or
// branch). It handles pagination automatically.
func (c *Client) FetchCheckRuns(ctx context.Context, owner, repo, ref string) ([]model.CheckRun, error) {
	opts := &gh.ListCheckRunsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var allRuns []model.CheckRun

	for {
		result, resp, err := c.gh.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, opts)
		if err != nil {
			return nil, fmt.Errorf("listing check runs for %s/%s@%s (page %d): %w", owner, repo, ref, opts.Page, err)
		}

		logRateLimit(resp, owner+"/"+repo+"/check-runs", opts.Page, len(result.CheckRuns))

		for _, cr := range result.CheckRuns {
			allRuns = append(allRuns, model.CheckRun{
				Name:       cr.GetName(),
				Conclusion: cr.GetConclusion(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRuns, nil
}

// mapPull converts a go-github PullRequest to a domain model Pull.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapPull(pr *gh.PullRequest, owner, repo string) model.Pull {
	state := model.PullStateOpen
	if pr.GetState() != "open" {
		state = model.PullStateClosed
	}

	author := model.UnknownAuthor
	if pr.GetUser().GetLogin() != "" {
		author = pr.GetUser().GetLogin()
	}

	number := model.UnknownNumber
	if pr.Number != nil {
		number = pr.GetNumber()
	}

	var mergedAt *time.Time
	if !pr.GetMergedAt().IsZero() {
		t := pr.GetMergedAt().Time
		mergedAt = &t
	}

	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}

	return model.Pull{
		ID:           pr.GetID(),
		Organization: owner,
		Repository:   repo,
		Number:       number,
		Title:        pr.GetTitle(),
		Author:       author,
		URL:          pr.GetHTMLURL(),
		State:        state,
		IsDraft:      pr.GetDraft(),
		OpenedAt:     pr.GetCreatedAt().Time,
		MergedAt:     mergedAt,
		CheckState:   model.CheckStatePending,
		HeadRef:      pr.GetHead().GetRef(),
		Labels:       labels,
	}
}

// mapReview converts a go-github PullRequestReview to a domain model Review.
// The review state passes through verbatim (APPROVED, CHANGES_REQUESTED, ...).
func mapReview(r *gh.PullRequestReview) model.Review {
	reviewer := model.UnknownAuthor
	if r.GetUser().GetLogin() != "" {
		reviewer = r.GetUser().GetLogin()
	}

	return model.Review{
		Reviewer:    reviewer,
		State:       model.ReviewState(r.GetState()),
		SubmittedAt: r.GetSubmittedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
