// Package config loads application configuration from environment variables
// and the YAML bot definition file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pullherald/pullherald/internal/domain/model"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SlackToken        string
	GitHubToken       string
	PollInterval      time.Duration
	DBPath            string
	ConfigPath        string
	RequiredApprovals int
	CreditPolicy      model.CreditPolicy
	RecencyWindow     int
}

// Load reads configuration from environment variables and returns a
// validated Config. PULLHERALD_SLACK_TOKEN and PULLHERALD_GITHUB_TOKEN are
// required. Optional variables with defaults: PULLHERALD_POLL_INTERVAL
// (30s), PULLHERALD_DB_PATH (pullherald.db), PULLHERALD_CONFIG_PATH
// (pullherald.yaml), PULLHERALD_REQUIRED_APPROVALS (1),
// PULLHERALD_CREDIT_POLICY (all), PULLHERALD_RECENCY_WINDOW (10).
func Load() (*Config, error) {
	slackToken := os.Getenv("PULLHERALD_SLACK_TOKEN")
	if slackToken == "" {
		return nil, fmt.Errorf("PULLHERALD_SLACK_TOKEN is required")
	}

	githubToken := os.Getenv("PULLHERALD_GITHUB_TOKEN")
	if githubToken == "" {
		return nil, fmt.Errorf("PULLHERALD_GITHUB_TOKEN is required")
	}

	pollInterval := 30 * time.Second
	if v, ok := os.LookupEnv("PULLHERALD_POLL_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PULLHERALD_POLL_INTERVAL has invalid duration %q: %w", v, err)
		}
		pollInterval = parsed
	}

	dbPath := "pullherald.db"
	if v, ok := os.LookupEnv("PULLHERALD_DB_PATH"); ok {
		dbPath = v
	}

	configPath := "pullherald.yaml"
	if v, ok := os.LookupEnv("PULLHERALD_CONFIG_PATH"); ok {
		configPath = v
	}

	requiredApprovals := 1
	if v, ok := os.LookupEnv("PULLHERALD_REQUIRED_APPROVALS"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("PULLHERALD_REQUIRED_APPROVALS must be a positive integer, got %q", v)
		}
		requiredApprovals = parsed
	}

	creditPolicy := model.CreditPolicyAll
	if v, ok := os.LookupEnv("PULLHERALD_CREDIT_POLICY"); ok {
		switch model.CreditPolicy(v) {
		case model.CreditPolicyAll, model.CreditPolicyApprovedOnly:
			creditPolicy = model.CreditPolicy(v)
		default:
			return nil, fmt.Errorf("PULLHERALD_CREDIT_POLICY must be %q or %q, got %q",
				model.CreditPolicyAll, model.CreditPolicyApprovedOnly, v)
		}
	}

	recencyWindow := 10
	if v, ok := os.LookupEnv("PULLHERALD_RECENCY_WINDOW"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("PULLHERALD_RECENCY_WINDOW must be a positive integer, got %q", v)
		}
		recencyWindow = parsed
	}

	return &Config{
		SlackToken:        slackToken,
		GitHubToken:       githubToken,
		PollInterval:      pollInterval,
		DBPath:            dbPath,
		ConfigPath:        configPath,
		RequiredApprovals: requiredApprovals,
		CreditPolicy:      creditPolicy,
		RecencyWindow:     recencyWindow,
	}, nil
}

// BotFile is the YAML definition of what the bot watches and where it
// reports: repositories, tracked people, and output channels.
type BotFile struct {
	Repositories []string       `yaml:"repositories"`
	People       []PersonEntry  `yaml:"people"`
	Channels     []ChannelEntry `yaml:"channels"`
}

// PersonEntry maps one GitHub login to a Slack member ID. File order is
// significant: it breaks leaderboard ties.
type PersonEntry struct {
	Login   string `yaml:"login"`
	SlackID string `yaml:"slack_id"`
}

// ChannelEntry defines one output channel.
type ChannelEntry struct {
	ID    string `yaml:"id"`
	Style string `yaml:"style"`
	// Repositories restricts the channel to a subset; empty means all.
	Repositories []string `yaml:"repositories"`
}

// LoadBotFile reads and validates the YAML bot definition.
func LoadBotFile(path string) (*BotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bot definition %s: %w", path, err)
	}

	var file BotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing bot definition %s: %w", path, err)
	}

	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("invalid bot definition %s: %w", path, err)
	}

	return &file, nil
}

func (f *BotFile) validate() error {
	if len(f.Repositories) == 0 {
		return fmt.Errorf("at least one repository is required")
	}
	for _, full := range f.Repositories {
		if _, err := model.ParseRepoRef(full); err != nil {
			return err
		}
	}

	if len(f.People) == 0 {
		return fmt.Errorf("at least one tracked person is required")
	}
	for _, person := range f.People {
		if person.Login == "" || person.SlackID == "" {
			return fmt.Errorf("person entries need both login and slack_id")
		}
	}

	if len(f.Channels) == 0 {
		return fmt.Errorf("at least one channel is required")
	}
	known := make(map[string]bool, len(f.Repositories))
	for _, full := range f.Repositories {
		known[full] = true
	}
	for _, ch := range f.Channels {
		if ch.ID == "" {
			return fmt.Errorf("channel entries need an id")
		}
		switch model.ChannelStyle(ch.Style) {
		case model.ChannelStyleDetailed, model.ChannelStyleCompact:
		default:
			return fmt.Errorf("channel %s has invalid style %q", ch.ID, ch.Style)
		}
		for _, full := range ch.Repositories {
			if !known[full] {
				return fmt.Errorf("channel %s references unknown repository %q", ch.ID, full)
			}
		}
	}

	return nil
}

// Repos returns the watched repositories as parsed refs.
func (f *BotFile) Repos() []model.RepoRef {
	repos := make([]model.RepoRef, 0, len(f.Repositories))
	for _, full := range f.Repositories {
		ref, err := model.ParseRepoRef(full)
		if err != nil {
			continue // validate() already rejected malformed names
		}
		repos = append(repos, ref)
	}
	return repos
}

// TrackedPeople returns the tracked-person set in file order.
func (f *BotFile) TrackedPeople() *model.People {
	persons := make([]model.Person, 0, len(f.People))
	for _, entry := range f.People {
		persons = append(persons, model.Person{Login: entry.Login, ChatID: entry.SlackID})
	}
	return model.NewPeople(persons)
}

// OutputChannels returns the configured channels as domain values.
func (f *BotFile) OutputChannels() []model.Channel {
	channels := make([]model.Channel, 0, len(f.Channels))
	for _, entry := range f.Channels {
		channels = append(channels, model.Channel{
			ID:           entry.ID,
			Style:        model.ChannelStyle(entry.Style),
			Repositories: entry.Repositories,
		})
	}
	return channels
}
