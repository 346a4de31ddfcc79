package application

import (
	"context"
	"log/slog"
	"sort"

	"github.com/pullherald/pullherald/internal/domain/model"
	"github.com/pullherald/pullherald/internal/domain/port/driven"
)

// IsNotable reports whether a pull is worth surfacing right now: ready for
// review with green checks and not held back, or already approved.
func IsNotable(pull model.Pull) bool {
	if pull.Approved {
		return true
	}
	return !pull.IsDraft && pull.CheckState == model.CheckStatePassing && !pull.OnHold
}

// NoveltyDetector decides whether a cycle's snapshot contains a pull that
// newly became notable. Each detector owns one partition of the durable
// notable-link set; detectors for different partitions are fully
// independent.
type NoveltyDetector struct {
	store     driven.NotableStore
	partition string
	links     map[string]struct{} // nil until loaded from the store
}

// NewNoveltyDetector creates a detector over the given store partition.
func NewNoveltyDetector(store driven.NotableStore, partition string) *NoveltyDetector {
	return &NoveltyDetector{store: store, partition: partition}
}

// Detect compares the current snapshot against the stored notable-link set
// and persists the updated set. It returns true iff at least one pull newly
// became notable this cycle.
//
// A pull that regresses out of notability has its link removed, so it
// re-triggers novelty if it becomes notable again later. Links for pulls no
// longer present in the snapshot are purged to bound growth.
func (d *NoveltyDetector) Detect(ctx context.Context, pulls []model.Pull) (bool, error) {
	if d.links == nil {
		stored, err := d.store.Load(ctx, d.partition)
		if err != nil {
			return false, err
		}
		d.links = make(map[string]struct{}, len(stored))
		for _, link := range stored {
			d.links[link] = struct{}{}
		}
	}

	hasNew := false
	current := make(map[string]struct{}, len(pulls))

	for _, pull := range pulls {
		current[pull.URL] = struct{}{}

		if !IsNotable(pull) {
			delete(d.links, pull.URL)
			continue
		}

		if _, seen := d.links[pull.URL]; !seen {
			d.links[pull.URL] = struct{}{}
			hasNew = true
			slog.Info("new notable pull", "partition", d.partition, "url", pull.URL)
		}
	}

	for link := range d.links {
		if _, ok := current[link]; !ok {
			delete(d.links, link)
		}
	}

	if err := d.store.Save(ctx, d.partition, d.sortedLinks()); err != nil {
		return hasNew, err
	}

	return hasNew, nil
}

func (d *NoveltyDetector) sortedLinks() []string {
	links := make([]string, 0, len(d.links))
	for link := range d.links {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}
