package driven

import "context"

// NotableStore defines the driven port for the durable set of pull URLs
// already surfaced as notable. Partitions are fully independent; each
// output channel owns one.
type NotableStore interface {
	// Load returns every link stored under the partition.
	Load(ctx context.Context, partition string) ([]string, error)
	// Save replaces the partition's stored links wholesale.
	Save(ctx context.Context, partition string, links []string) error
}
