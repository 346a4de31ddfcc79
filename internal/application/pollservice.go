package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/pullherald/pullherald/internal/domain/model"
	"github.com/pullherald/pullherald/internal/domain/port/driven"
)

// trackWindow bounds which non-open pulls still feed the fairness ledger.
const trackWindow = 30 * 24 * time.Hour

// PollService owns the sequential poll loop: fetch and normalize pulls per
// repository, feed the fairness ledger, run per-channel novelty detection,
// and reconcile each channel's summary message. All cross-cycle state lives
// in the components it holds; nothing runs concurrently with a cycle.
type PollService struct {
	normalizer *Normalizer
	ledger     *FairnessLedger
	reconciler *MessageReconciler
	heartbeats driven.HeartbeatStore
	detectors  map[string]*NoveltyDetector
	repos      []model.RepoRef
	channels   []model.Channel
	people     *model.People
	interval   time.Duration
	now        func() time.Time
}

// NewPollService creates a PollService. Each channel gets its own novelty
// detector partitioned by channel ID so downstream channels dedup
// independently.
func NewPollService(
	normalizer *Normalizer,
	ledger *FairnessLedger,
	reconciler *MessageReconciler,
	heartbeats driven.HeartbeatStore,
	notables driven.NotableStore,
	repos []model.RepoRef,
	channels []model.Channel,
	people *model.People,
	interval time.Duration,
) *PollService {
	detectors := make(map[string]*NoveltyDetector, len(channels))
	for _, ch := range channels {
		detectors[ch.ID] = NewNoveltyDetector(notables, ch.ID)
	}

	return &PollService{
		normalizer: normalizer,
		ledger:     ledger,
		reconciler: reconciler,
		heartbeats: heartbeats,
		detectors:  detectors,
		repos:      repos,
		channels:   channels,
		people:     people,
		interval:   interval,
		now:        time.Now,
	}
}

// Start runs poll cycles until the context is canceled. The next cycle is
// chained after the previous one completes plus the interval, never from a
// fixed-rate timer, so cycles cannot overlap.
func (s *PollService) Start(ctx context.Context) {
	for {
		if err := s.RunCycle(ctx); err != nil {
			slog.Error("poll cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("poll service stopped")
			return
		case <-time.After(s.interval):
		}
	}
}

// RunCycle executes one poll cycle. Per-repository fetch failures and
// per-channel transport failures are logged and skipped; they retry on the
// next cycle. Only context cancellation aborts the cycle.
func (s *PollService) RunCycle(ctx context.Context) error {
	start := s.now()

	if err := s.heartbeats.Beat(ctx, start); err != nil {
		// Liveness reporting must not block the cycle itself.
		slog.Error("heartbeat refresh failed", "error", err)
	}

	var pulls []model.Pull
	var fetchErrors int
	for _, repo := range s.repos {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		repoPulls, err := s.normalizer.NormalizeRepo(ctx, repo)
		if err != nil {
			slog.Error("repo poll failed", "repo", repo.String(), "error", err)
			fetchErrors++
			continue
		}
		pulls = append(pulls, repoPulls...)
	}

	if purged, err := s.ledger.PurgeExpired(ctx); err != nil {
		slog.Error("credit purge failed", "error", err)
	} else if purged > 0 {
		slog.Debug("expired credits purged", "count", purged)
	}

	now := s.now()
	for _, pull := range pulls {
		if pull.State != model.PullStateOpen && !pull.OpenedWithin(trackWindow, now) {
			continue
		}
		if err := s.ledger.TrackPull(ctx, pull); err != nil {
			slog.Error("review tracking failed", "pull", pull.ID, "error", err)
		}
	}

	lb := s.ledger.Leaderboard()

	var transportErrors int
	for _, ch := range s.channels {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		subset := filterPulls(pulls, ch)

		hasNew, err := s.detectors[ch.ID].Detect(ctx, subset)
		if err != nil {
			slog.Error("novelty detection failed", "channel", ch.ID, "error", err)
			continue
		}

		strategy := StrategyUpdate
		if hasNew {
			strategy = StrategyNotify
		}

		summary := BuildSummary(subset, ch, s.people, lb, now)
		if err := s.reconciler.Reconcile(ctx, ch.ID, summary, strategy); err != nil {
			slog.Error("channel reconcile failed", "channel", ch.ID, "strategy", string(strategy), "error", err)
			transportErrors++
		}
	}

	slog.Info("poll cycle complete",
		"repos", len(s.repos),
		"pulls", len(pulls),
		"fetch_errors", fetchErrors,
		"transport_errors", transportErrors,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

// filterPulls returns the pulls belonging to the channel's repository subset.
func filterPulls(pulls []model.Pull, ch model.Channel) []model.Pull {
	out := make([]model.Pull, 0, len(pulls))
	for _, pull := range pulls {
		if ch.Includes(pull.FullRepoName()) {
			out = append(out, pull)
		}
	}
	return out
}
