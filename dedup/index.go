package dedup

import (
	"context"
	"time"
)

// Entry records where a content hash was first stored.
type Entry struct {
	Source    string
	FirstSeen time.Time
}

// NewEntry creates an Entry for the given source, stamped with the current
// time truncated to microseconds.
func NewEntry(source string) Entry {
	return Entry{
		Source:    source,
		FirstSeen: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// Index is a persistent record of content hashes that have already been
// stored. Implementations must be thread-safe.
type Index interface {
	// Seen reports whether the hash has been marked before.
	Seen(ctx context.Context, hash string) (bool, error)

	// Mark records the hash. Marking an already-marked hash overwrites
	// the stored entry.
	Mark(ctx context.Context, hash string, entry Entry) error

	// Close closes the index and releases resources.
	Close() error
}
