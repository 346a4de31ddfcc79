package slack

import (
	"fmt"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/pullherald/pullherald/internal/domain/model"
)

// renderBlocks turns a cycle summary into Slack Block Kit blocks. Detailed
// channels get one section per pull with review annotations; compact
// channels get one line per repository.
func renderBlocks(summary model.Summary) []slackapi.Block {
	var blocks []slackapi.Block

	for _, section := range summary.Sections {
		if summary.Style == model.ChannelStyleCompact {
			blocks = append(blocks, renderCompactSection(section))
			continue
		}
		blocks = append(blocks, renderDetailedSection(section)...)
	}

	blocks = append(blocks, renderStandings(summary)...)

	return blocks
}

func renderDetailedSection(section model.RepoSection) []slackapi.Block {
	repoURL := fmt.Sprintf("https://github.com/%s/%s/pulls", section.Organization, section.Repository)

	viewAll := slackapi.NewButtonBlockElement("", "",
		slackapi.NewTextBlockObject(slackapi.PlainTextType, "View All", true, false))
	viewAll.URL = repoURL

	blocks := []slackapi.Block{
		slackapi.NewHeaderBlock(
			slackapi.NewTextBlockObject(slackapi.PlainTextType, section.Repository, false, false)),
		slackapi.NewSectionBlock(
			slackapi.NewTextBlockObject(slackapi.MarkdownType,
				fmt.Sprintf("%d\tUser Pulls \n %d\tDependabot Pulls", len(section.OpenPulls), section.DependabotCount),
				false, false),
			nil,
			slackapi.NewAccessory(viewAll)),
		slackapi.NewDividerBlock(),
	}

	for _, pull := range section.OpenPulls {
		blocks = append(blocks, renderPull(pull)...)
	}

	return blocks
}

func renderPull(pull model.PullEntry) []slackapi.Block {
	label := "Review"
	switch {
	case pull.IsDraft:
		label = "View"
	case pull.Approved:
		label = "Approved"
	}

	button := slackapi.NewButtonBlockElement("", "",
		slackapi.NewTextBlockObject(slackapi.PlainTextType, label, true, false))
	button.URL = pull.URL
	if !pull.Approved && !pull.IsDraft {
		button.Style = slackapi.StylePrimary
	}

	title := fmt.Sprintf("*%d*\t%s", pull.Number, pull.Title)
	if pull.IsDraft {
		title = "*[  DRAFT  ]*\t" + title
	}

	blocks := []slackapi.Block{
		slackapi.NewSectionBlock(
			slackapi.NewTextBlockObject(slackapi.MarkdownType, title, false, false),
			nil,
			slackapi.NewAccessory(button)),
	}

	for _, review := range pull.Reviews {
		blocks = append(blocks, slackapi.NewContextBlock("",
			slackapi.NewTextBlockObject(slackapi.MarkdownType,
				fmt.Sprintf("*%s* %s", review.Reviewer, reviewPhrase(review)),
				false, false)))
	}

	return blocks
}

func renderCompactSection(section model.RepoSection) slackapi.Block {
	line := fmt.Sprintf("*%s*\t%d open, %d dependabot", section.Repository, len(section.OpenPulls), section.DependabotCount)
	return slackapi.NewSectionBlock(
		slackapi.NewTextBlockObject(slackapi.MarkdownType, line, false, false), nil, nil)
}

// renderStandings emits the leaderboard table and, when present, the nudge
// sentences naming who is behind and ahead of the average.
func renderStandings(summary model.Summary) []slackapi.Block {
	fields := []*slackapi.TextBlockObject{
		slackapi.NewTextBlockObject(slackapi.MarkdownType,
			"```"+leaderboardTable(summary.Leaderboard.Ranking)+"```", false, false),
	}

	if nudge := summary.Nudge; nudge != nil {
		worst := make([]string, 0, len(nudge.Worst))
		for _, person := range nudge.Worst {
			worst = append(worst, fmt.Sprintf("<@%s> (%s)", person.ChatID, person.Login))
		}
		best := make([]string, 0, len(nudge.Best))
		for _, person := range nudge.Best {
			best = append(best, person.Login)
		}

		fields = append(fields, slackapi.NewTextBlockObject(slackapi.MarkdownType,
			fmt.Sprintf("Hey %s, you've done %v fewer reviews than average. Wanna give this one a go?\n\n\n", joinNames(worst), nudge.BelowAverageBy)+
				fmt.Sprintf("Woah, %s, you're too hot! You've done %v more reviews than average. Leave some for the rest of us, ok?", joinNames(best), nudge.AboveAverageBy),
			false, false))
	}

	return []slackapi.Block{slackapi.NewSectionBlock(nil, fields, nil)}
}

// reviewPhrase renders one review annotation in the channel's voice.
func reviewPhrase(review model.ReviewNote) string {
	switch review.State {
	case model.ReviewStateApproved:
		return "approved this pull."
	case model.ReviewStateChangesRequested:
		return "requested changes."
	case model.ReviewStateCommented:
		if review.IsAuthor {
			return "(pull owner) commented."
		}
		return "commented."
	case model.ReviewStatePending:
		if review.IsAuthor {
			return "(pull owner) commented."
		}
		return "is reviewing."
	default:
		return "is now " + string(review.State) + "."
	}
}

// leaderboardTable draws the standings as a box-drawing table:
//
//	╔════════════════╗
//	║  leaderBoard   ║
//	╠═════╤════╤═════╣
//	║ 1st │ ab │  16 ║
//	╟─────┼────┼─────╢
//	║ 2nd │ cd │  15 ║
//	╚═════╧════╧═════╝
func leaderboardTable(ranking []model.RankEntry) string {
	nameSize := 0
	for _, entry := range ranking {
		if len(entry.Login) > nameSize {
			nameSize = len(entry.Login)
		}
	}
	if nameSize%2 == 1 {
		nameSize++
	}

	doubleBars := strings.Repeat("═", nameSize)
	singleBars := strings.Repeat("─", nameSize)
	spaces := strings.Repeat(" ", nameSize/2)

	var table strings.Builder
	const indent = "  "

	fmt.Fprintf(&table, "\n%s╔════════%s═══════╗\n%s", indent, doubleBars, indent)
	fmt.Fprintf(&table, "║ %s leaderBoard %s ║\n%s", spaces, spaces, indent)
	fmt.Fprintf(&table, "╠═════╤═%s═╤══════╣\n%s", doubleBars, indent)

	for i, entry := range ranking {
		namePadding := strings.Repeat(" ", nameSize-len(entry.Login))
		count := fmt.Sprintf("%d", entry.Count)
		countPadding := strings.Repeat(" ", max(4-len(count), 0))

		fmt.Fprintf(&table, "║ %s │ %s%s │ %s%s ║", ordinal(i+1), entry.Login, namePadding, countPadding, count)

		if i == len(ranking)-1 {
			fmt.Fprintf(&table, "\n%s╚═════╧═%s═╧══════╝", indent, doubleBars)
		} else {
			fmt.Fprintf(&table, "\n%s╟─────┼─%s─┼──────╢\n%s", indent, singleBars, indent)
		}
	}

	return table.String()
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// joinNames concatenates names into a spoken list: "a, b, and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
