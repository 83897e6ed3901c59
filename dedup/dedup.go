package dedup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corvid-labs/magpie/core"
)

// Deduplicator filters duplicate records out of upsert batches by content
// hash. Safe for concurrent use as long as the attached Index is.
type Deduplicator struct {
	index  Index
	logger *slog.Logger
}

// Option configures a Deduplicator.
type Option func(*Deduplicator) error

// WithIndex attaches a persistent index so deduplication extends across
// runs, not just within a batch.
func WithIndex(index Index) Option {
	return func(d *Deduplicator) error {
		d.index = index
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deduplicator) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// New creates a Deduplicator. Without options it deduplicates within each
// batch only.
func New(opts ...Option) (*Deduplicator, error) {
	d := &Deduplicator{
		logger: slog.Default().With("component", "dedup"),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Deduplicate returns the records whose content hash has not been seen
// before, preserving input order. Within the batch the first occurrence of
// each hash wins; with an index attached, hashes marked in earlier runs are
// dropped too. Records with an empty content hash are always kept.
func (d *Deduplicator) Deduplicate(ctx context.Context, records []core.VectorRecord) ([]core.VectorRecord, int, error) {
	if len(records) == 0 {
		return nil, 0, nil
	}

	kept := make([]core.VectorRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	removed := 0

	for _, record := range records {
		hash := record.Metadata.ContentHash
		if hash == "" {
			kept = append(kept, record)
			continue
		}
		if _, dup := seen[hash]; dup {
			removed++
			continue
		}
		if d.index != nil {
			stored, err := d.index.Seen(ctx, hash)
			if err != nil {
				return nil, 0, fmt.Errorf("dedup index lookup: %w", err)
			}
			if stored {
				removed++
				seen[hash] = struct{}{}
				continue
			}
		}
		seen[hash] = struct{}{}
		kept = append(kept, record)
	}

	if removed > 0 {
		d.logger.Debug("removed duplicate records", "batch", len(records), "removed", removed)
	}
	return kept, removed, nil
}

// Commit marks the content hashes of records in the index. Call it after the
// records have been stored, so a failed upsert does not poison the index.
// Without an index it is a no-op.
func (d *Deduplicator) Commit(ctx context.Context, records []core.VectorRecord) error {
	if d.index == nil {
		return nil
	}
	for _, record := range records {
		hash := record.Metadata.ContentHash
		if hash == "" {
			continue
		}
		entry := NewEntry(record.Metadata.Source)
		if err := d.index.Mark(ctx, hash, entry); err != nil {
			return fmt.Errorf("dedup index mark: %w", err)
		}
	}
	return nil
}
