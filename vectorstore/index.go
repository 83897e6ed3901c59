package vectorstore

import (
	"context"

	"github.com/corvid-labs/magpie/core"
)

// Filter restricts query results to records whose metadata matches every
// listed field. Keys are the canonical metadata field names ("integration",
// "source", "type", "title", "content_hash"); unknown keys are matched
// against the record's free-form Extra map.
type Filter map[string]string

// Index is the wire contract of the external vector database. Upserts are
// idempotent by ID: re-upserting the same ID overwrites the stored record.
// Implementations must be thread-safe; concurrent writes are safe at the
// individual-record level but carry no batch-level transactional guarantee.
type Index interface {
	// Upsert writes a batch of records to the index.
	Upsert(ctx context.Context, records []core.VectorRecord) error

	// Query returns up to topK records ranked by similarity to vector,
	// optionally restricted by filter.
	Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]core.Match, error)

	// Stats reports the index's current size and dimension.
	Stats(ctx context.Context) (*core.IndexStats, error)
}

// MatchesFilter reports whether metadata satisfies every constraint in the
// filter. A nil or empty filter matches everything.
func MatchesFilter(m core.Metadata, filter Filter) bool {
	for key, want := range filter {
		if metadataField(m, key) != want {
			return false
		}
	}
	return true
}

// metadataField resolves a canonical filter key against the typed metadata
// record, falling back to the Extra passthrough map.
func metadataField(m core.Metadata, key string) string {
	switch key {
	case "integration":
		return m.Integration
	case "source":
		return m.Source
	case "type":
		return string(m.Type)
	case "title":
		return m.Title
	case "content_hash":
		return m.ContentHash
	}
	return m.Extra[key]
}
