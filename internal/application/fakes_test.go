package application_test

import (
	"context"
	"fmt"
	"time"

	"github.com/pullherald/pullherald/internal/domain/model"
)

// --- Fake driven ports shared by the application tests ---

type fakeGitHubClient struct {
	pulls      map[string][]model.Pull     // "owner/repo" -> pulls
	reviews    map[string][]model.Review   // "owner/repo#number" -> reviews
	checkRuns  map[string][]model.CheckRun // "owner/repo@ref" -> runs
	pullsErr   map[string]error
	reviewsErr map[string]error
	checksErr  map[string]error
}

func newFakeGitHubClient() *fakeGitHubClient {
	return &fakeGitHubClient{
		pulls:      make(map[string][]model.Pull),
		reviews:    make(map[string][]model.Review),
		checkRuns:  make(map[string][]model.CheckRun),
		pullsErr:   make(map[string]error),
		reviewsErr: make(map[string]error),
		checksErr:  make(map[string]error),
	}
}

func (f *fakeGitHubClient) FetchPulls(_ context.Context, owner, repo, _ string) ([]model.Pull, error) {
	key := owner + "/" + repo
	if err := f.pullsErr[key]; err != nil {
		return nil, err
	}
	return f.pulls[key], nil
}

func (f *fakeGitHubClient) FetchReviews(_ context.Context, owner, repo string, number int) ([]model.Review, error) {
	key := fmt.Sprintf("%s/%s#%d", owner, repo, number)
	if err := f.reviewsErr[key]; err != nil {
		return nil, err
	}
	return f.reviews[key], nil
}

func (f *fakeGitHubClient) FetchCheckRuns(_ context.Context, owner, repo, ref string) ([]model.CheckRun, error) {
	key := fmt.Sprintf("%s/%s@%s", owner, repo, ref)
	if err := f.checksErr[key]; err != nil {
		return nil, err
	}
	return f.checkRuns[key], nil
}

type fakeNotableStore struct {
	saved     map[string][]string
	loadErr   error
	saveErr   error
	saveCalls int
}

func newFakeNotableStore() *fakeNotableStore {
	return &fakeNotableStore{saved: make(map[string][]string)}
}

func (f *fakeNotableStore) Load(_ context.Context, partition string) ([]string, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]string(nil), f.saved[partition]...), nil
}

func (f *fakeNotableStore) Save(_ context.Context, partition string, links []string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saveCalls++
	f.saved[partition] = append([]string(nil), links...)
	return nil
}

type fakeLedgerStore struct {
	credits  map[string][]model.Credit
	addErr   error
	addCalls int
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{credits: make(map[string][]model.Credit)}
}

func (f *fakeLedgerStore) LoadCredits(_ context.Context) (map[string][]model.Credit, error) {
	out := make(map[string][]model.Credit, len(f.credits))
	for login, credits := range f.credits {
		out[login] = append([]model.Credit(nil), credits...)
	}
	return out, nil
}

func (f *fakeLedgerStore) AddCredit(_ context.Context, login string, credit model.Credit) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.addCalls++
	for _, existing := range f.credits[login] {
		if existing.PullID == credit.PullID {
			return nil
		}
	}
	f.credits[login] = append(f.credits[login], credit)
	return nil
}

func (f *fakeLedgerStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	var removed int
	for login, credits := range f.credits {
		kept := credits[:0]
		for _, credit := range credits {
			if credit.Expired(now) {
				removed++
			} else {
				kept = append(kept, credit)
			}
		}
		f.credits[login] = kept
	}
	return removed, nil
}

type postCall struct {
	Channel string
	Summary model.Summary
}

type updateCall struct {
	Channel   string
	MessageID string
}

type messageRef struct {
	Channel   string
	MessageID string
}

type fakeChatClient struct {
	history   map[string][]model.ChannelMessage // newest first
	posted    []postCall
	updated   []updateCall
	deleted   []messageRef
	pinned    []messageRef
	nextID    int
	postErr   error
	updateErr error
	deleteErr error
	listErr   error
}

func newFakeChatClient() *fakeChatClient {
	return &fakeChatClient{history: make(map[string][]model.ChannelMessage)}
}

func (f *fakeChatClient) PostMessage(_ context.Context, channelID string, summary model.Summary) (string, error) {
	if f.postErr != nil {
		return "", f.postErr
	}
	f.nextID++
	id := fmt.Sprintf("msg-%d", f.nextID)
	f.posted = append(f.posted, postCall{Channel: channelID, Summary: summary})
	f.history[channelID] = append([]model.ChannelMessage{{ID: id, BotOwned: true}}, f.history[channelID]...)
	return id, nil
}

func (f *fakeChatClient) UpdateMessage(_ context.Context, channelID, messageID string, _ model.Summary) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, updateCall{Channel: channelID, MessageID: messageID})
	return nil
}

func (f *fakeChatClient) DeleteMessage(_ context.Context, channelID, messageID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, messageRef{Channel: channelID, MessageID: messageID})
	kept := f.history[channelID][:0]
	for _, msg := range f.history[channelID] {
		if msg.ID != messageID {
			kept = append(kept, msg)
		}
	}
	f.history[channelID] = kept
	return nil
}

func (f *fakeChatClient) PinMessage(_ context.Context, channelID, messageID string) error {
	f.pinned = append(f.pinned, messageRef{Channel: channelID, MessageID: messageID})
	return nil
}

func (f *fakeChatClient) ListRecentMessages(_ context.Context, channelID string, limit int) ([]model.ChannelMessage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	msgs := f.history[channelID]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return append([]model.ChannelMessage(nil), msgs...), nil
}

type fakeHeartbeatStore struct {
	beats []time.Time
}

func (f *fakeHeartbeatStore) Beat(_ context.Context, at time.Time) error {
	f.beats = append(f.beats, at)
	return nil
}

func (f *fakeHeartbeatStore) LastBeat(_ context.Context) (time.Time, error) {
	if len(f.beats) == 0 {
		return time.Time{}, nil
	}
	return f.beats[len(f.beats)-1], nil
}

// --- Shared builders ---

func trackedPeople(logins ...string) *model.People {
	persons := make([]model.Person, 0, len(logins))
	for _, login := range logins {
		persons = append(persons, model.Person{Login: login, ChatID: "U" + login})
	}
	return model.NewPeople(persons)
}

func openPull(id int64, number int, repo string) model.Pull {
	return model.Pull{
		ID:           id,
		Organization: "acme",
		Repository:   repo,
		Number:       number,
		Title:        fmt.Sprintf("Pull %d", number),
		Author:       "alice",
		URL:          fmt.Sprintf("https://github.com/acme/%s/pull/%d", repo, number),
		State:        model.PullStateOpen,
		CheckState:   model.CheckStatePassing,
		OpenedAt:     time.Now().Add(-24 * time.Hour),
	}
}
