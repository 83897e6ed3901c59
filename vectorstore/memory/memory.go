// Package memory provides an in-memory vectorstore.Index.
//
// It exists for tests and dry runs: full cosine-similarity scans over a map,
// no persistence, no external service. The index enforces the same dimension
// invariant as a real store so pipeline behavior matches production.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/corvid-labs/magpie/core"
	"github.com/corvid-labs/magpie/vectorstore"
)

// Index is an in-memory vector index. Safe for concurrent use.
type Index struct {
	mu        sync.RWMutex
	records   map[string]core.VectorRecord
	dimension int
}

var _ vectorstore.Index = (*Index)(nil)

// NewIndex creates an empty in-memory index with the given dimension.
func NewIndex(dimension int) *Index {
	return &Index{
		records:   make(map[string]core.VectorRecord),
		dimension: dimension,
	}
}

// Upsert stores records keyed by ID, overwriting existing entries. Records
// whose embedding length differs from the index dimension are rejected, as a
// real store would reject them.
func (idx *Index) Upsert(ctx context.Context, records []core.VectorRecord) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, record := range records {
		if len(record.Embedding) != idx.dimension {
			return fmt.Errorf("%w: record %s has %d values, index expects %d",
				vectorstore.ErrBadRequest, record.ID, len(record.Embedding), idx.dimension)
		}
	}
	for _, record := range records {
		idx.records[record.ID] = record
	}
	return nil
}

// Query scans all records, ranking by cosine similarity.
func (idx *Index) Query(ctx context.Context, vector []float32, topK int, filter vectorstore.Filter) ([]core.Match, error) {
	if len(vector) != idx.dimension {
		return nil, fmt.Errorf("%w: query vector has %d values, index expects %d",
			vectorstore.ErrBadRequest, len(vector), idx.dimension)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	matches := make([]core.Match, 0, len(idx.records))
	for _, record := range idx.records {
		if !vectorstore.MatchesFilter(record.Metadata, filter) {
			continue
		}
		matches = append(matches, core.Match{
			ID:       record.ID,
			Score:    cosineSimilarity(vector, record.Embedding),
			Metadata: record.Metadata,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Stats reports the record count and configured dimension.
func (idx *Index) Stats(ctx context.Context) (*core.IndexStats, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return &core.IndexStats{
		TotalVectorCount: int64(len(idx.records)),
		Dimension:        idx.dimension,
	}, nil
}

// Len returns the number of stored records.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

// Get returns the stored record for id, if present.
func (idx *Index) Get(id string) (core.VectorRecord, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	record, ok := idx.records[id]
	return record, ok
}

// cosineSimilarity returns the cosine of the angle between two equal-length
// vectors, or 0 when either has zero magnitude.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
