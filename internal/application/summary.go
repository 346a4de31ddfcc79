package application

import (
	"math"
	"time"

	"github.com/pullherald/pullherald/internal/domain/model"
)

// dependabotLogin is reported separately from user pulls in summaries.
const dependabotLogin = "dependabot[bot]"

// BuildSummary assembles the renderable cycle outcome for one channel from
// that channel's pull subset. Repositories keep first-seen order; pulls keep
// API order. The nudge is omitted when every open user pull is approved.
func BuildSummary(pulls []model.Pull, channel model.Channel, people *model.People, lb model.Leaderboard, now time.Time) model.Summary {
	summary := model.Summary{
		Style:       channel.Style,
		Leaderboard: lb,
		GeneratedAt: now,
	}

	sectionIndex := make(map[string]int)
	allApproved := true

	for _, pull := range pulls {
		if pull.State != model.PullStateOpen {
			continue
		}

		full := pull.FullRepoName()
		i, ok := sectionIndex[full]
		if !ok {
			i = len(summary.Sections)
			sectionIndex[full] = i
			summary.Sections = append(summary.Sections, model.RepoSection{
				Organization: pull.Organization,
				Repository:   pull.Repository,
			})
		}

		if pull.Author == dependabotLogin {
			summary.Sections[i].DependabotCount++
			continue
		}

		if !pull.Approved && !pull.IsDraft {
			allApproved = false
		}

		entry := model.PullEntry{
			Number:   pull.Number,
			Title:    pull.Title,
			URL:      pull.URL,
			Author:   pull.Author,
			IsDraft:  pull.IsDraft,
			Approved: pull.Approved,
		}
		for _, review := range pull.Reviews {
			entry.Reviews = append(entry.Reviews, model.ReviewNote{
				Reviewer: review.Reviewer,
				State:    review.State,
				IsAuthor: review.Reviewer == pull.Author,
			})
		}
		summary.Sections[i].OpenPulls = append(summary.Sections[i].OpenPulls, entry)
	}

	if !allApproved && people != nil && people.Len() > 0 {
		summary.Nudge = buildNudge(people, lb)
	}

	return summary
}

// buildNudge resolves the leaderboard's best and worst tie groups to
// tracked persons and their distance from the average, rounded the way the
// message renders it.
func buildNudge(people *model.People, lb model.Leaderboard) *model.Nudge {
	nudge := &model.Nudge{
		BelowAverageBy: roundThousandth(lb.Average - float64(lb.WorstReviewCount)),
		AboveAverageBy: roundThousandth(float64(lb.BestReviewCount) - lb.Average),
	}
	for _, login := range lb.WorstLogins {
		if person, ok := people.Lookup(login); ok {
			nudge.Worst = append(nudge.Worst, person)
		}
	}
	for _, login := range lb.BestLogins {
		if person, ok := people.Lookup(login); ok {
			nudge.Best = append(nudge.Best, person)
		}
	}
	return nudge
}

func roundThousandth(x float64) float64 {
	return math.Round(x*1000) / 1000
}
