package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"

	"github.com/corvid-labs/magpie/ai"
	"github.com/corvid-labs/magpie/chunker"
	"github.com/corvid-labs/magpie/core"
	"github.com/corvid-labs/magpie/dedup"
	"github.com/corvid-labs/magpie/vectorstore"
)

// Integrator runs source integrations: fetch, chunk, embed, dedup, upsert.
// It manages a bounded worker pool for embedding calls.
type Integrator struct {
	embedder   ai.Embedder
	gateway    *vectorstore.Gateway
	chunks     *chunker.Chunker
	dedup      *dedup.Deduplicator
	dedupIndex dedup.Index
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures an Integrator.
type Option func(*Integrator) error

// WithPoolSize sets the worker pool size for concurrent embedding calls.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(it *Integrator) error {
		if size < 1 {
			size = 1
		}

		if it.pool != nil {
			it.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		it.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(it *Integrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		it.logger = logger
		return nil
	}
}

// WithChunker replaces the default chunker.
func WithChunker(c *chunker.Chunker) Option {
	return func(it *Integrator) error {
		if c == nil {
			return errors.New("chunker cannot be nil")
		}
		it.chunks = c
		return nil
	}
}

// WithDedupIndex attaches a persistent dedup index so content stored in
// earlier runs is not stored again. Without it deduplication stays scoped to
// each item's batch.
func WithDedupIndex(index dedup.Index) Option {
	return func(it *Integrator) error {
		it.dedupIndex = index
		return nil
	}
}

// NewIntegrator creates an integrator over the given embedder and gateway.
func NewIntegrator(embedder ai.Embedder, gateway *vectorstore.Gateway, opts ...Option) (*Integrator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if gateway == nil {
		return nil, ErrGatewayRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	it := &Integrator{
		embedder: embedder,
		gateway:  gateway,
		pool:     pool,
		logger:   slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(it); optErr != nil {
			it.Release()
			return nil, optErr
		}
	}

	if it.chunks == nil {
		it.chunks, err = chunker.New()
		if err != nil {
			it.Release()
			return nil, err
		}
	}

	dedupOpts := []dedup.Option{dedup.WithLogger(it.logger)}
	if it.dedupIndex != nil {
		dedupOpts = append(dedupOpts, dedup.WithIndex(it.dedupIndex))
	}
	it.dedup, err = dedup.New(dedupOpts...)
	if err != nil {
		it.Release()
		return nil, err
	}

	return it, nil
}

// IntegrateSource runs one connector's integration end to end and returns
// its counters. A connector without credentials or without content fails the
// run; per-item errors are absorbed, but an upsert that exhausts its retries
// aborts the run with the counters accumulated so far.
func (it *Integrator) IntegrateSource(ctx context.Context, conn Connector) core.IntegrationResult {
	result := core.IntegrationResult{}
	if conn == nil {
		result.Err = ErrConnectorRequired
		return result
	}

	result.Integration = conn.Name()
	result.Source = conn.Name()
	logger := it.logger.With("integration", conn.Name())

	logger.Debug("integration stage", "stage", StageFetching)
	items, err := conn.Fetch(ctx)
	if err != nil {
		result.Err = fmt.Errorf("fetching from %s: %w", conn.Name(), err)
		logger.Error("integration failed", "stage", StageFetching, "err", err)
		return result
	}
	if len(items) == 0 {
		result.Err = fmt.Errorf("fetching from %s: %w", conn.Name(), ErrNoItems)
		logger.Error("integration failed", "stage", StageFetching, "err", result.Err)
		return result
	}

	for _, item := range items {
		result.ItemsProcessed++

		logger.Debug("integration stage", "stage", StageChunking, "item", item.Title)
		chunks, err := it.chunks.Chunk(item.Content)
		if err != nil {
			logger.Warn("skipping item that produced no chunks", "item", item.Title, "err", err)
			continue
		}
		result.ChunksProcessed += len(chunks)

		logger.Debug("integration stage", "stage", StageEmbedding, "item", item.Title, "chunks", len(chunks))
		records := it.embedChunks(ctx, conn.Name(), item, chunks)

		logger.Debug("integration stage", "stage", StageDeduplicating, "item", item.Title)
		kept, removed, err := it.dedup.Deduplicate(ctx, records)
		if err != nil {
			logger.Error("deduplication failed, skipping item", "item", item.Title, "err", err)
			continue
		}
		result.DuplicatesRemoved += removed
		if len(kept) == 0 {
			continue
		}

		logger.Debug("integration stage", "stage", StageUpserting, "item", item.Title, "records", len(kept))
		if err := it.gateway.Upsert(ctx, kept); err != nil {
			// Retries are exhausted at this point; further writes to the
			// store would be doomed too, so the whole source run stops.
			result.Err = fmt.Errorf("upserting item %q: %w", item.Title, err)
			logger.Error("integration failed", "stage", StageUpserting, "err", err)
			return result
		}
		result.ChunksStored += len(kept)

		if err := it.dedup.Commit(ctx, kept); err != nil {
			logger.Warn("failed to record stored hashes", "item", item.Title, "err", err)
		}
	}

	result.Success = true
	logger.Info("integration complete",
		"stage", StageDone,
		"items", result.ItemsProcessed,
		"chunks_processed", result.ChunksProcessed,
		"chunks_stored", result.ChunksStored,
		"duplicates_removed", result.DuplicatesRemoved)
	return result
}

// IntegrateAll runs the connectors in priority order, sequentially, and
// aggregates their results. Connectors without credentials or without
// content are skipped; any other failure is recorded in that source's result
// without stopping the remaining sources.
func (it *Integrator) IntegrateAll(ctx context.Context, connectors []Connector) core.IntegrationSummary {
	summary := core.IntegrationSummary{}

	for _, conn := range sortByPriority(connectors) {
		result := it.IntegrateSource(ctx, conn)
		if errors.Is(result.Err, ErrNotConfigured) || errors.Is(result.Err, ErrNoItems) {
			it.logger.Info("skipping source", "integration", conn.Name(), "reason", result.Err)
			continue
		}
		summary.Results = append(summary.Results, result)
		if result.Success {
			summary.SourcesIntegrated = append(summary.SourcesIntegrated, result.Integration)
		}
	}

	summary.ChunksProcessed = lo.SumBy(summary.Results, func(r core.IntegrationResult) int {
		return r.ChunksProcessed
	})
	summary.ChunksStored = lo.SumBy(summary.Results, func(r core.IntegrationResult) int {
		return r.ChunksStored
	})
	summary.DuplicatesRemoved = lo.SumBy(summary.Results, func(r core.IntegrationResult) int {
		return r.DuplicatesRemoved
	})

	return summary
}

// embedChunks embeds the chunks on the worker pool and builds vector
// records. Chunks whose embedding fails or comes back empty are skipped.
func (it *Integrator) embedChunks(ctx context.Context, integration string, item core.ContentItem, chunks []core.Chunk) []core.VectorRecord {
	embeddings := make([][]float32, len(chunks))

	var wg sync.WaitGroup
	for i := range chunks {
		wg.Add(1)
		text := chunks[i].Text
		idx := i
		err := it.pool.Submit(func() {
			defer wg.Done()
			vector, err := it.embedder.EmbedText(ctx, text)
			if err != nil {
				it.logger.Warn("embedding failed, skipping chunk",
					"integration", integration, "item", item.Title, "chunk", idx, "err", err)
				return
			}
			embeddings[idx] = vector
		})
		if err != nil {
			wg.Done()
			it.logger.Error("failed to submit embedding task", "err", err)
		}
	}
	wg.Wait()

	now := time.Now().UTC()
	records := make([]core.VectorRecord, 0, len(chunks))
	for i, chunk := range chunks {
		if len(embeddings[i]) == 0 {
			continue
		}

		timestamp := item.Timestamp
		if timestamp.IsZero() {
			timestamp = now
		}

		records = append(records, core.VectorRecord{
			ID:        chunk.ID,
			Embedding: embeddings[i],
			Metadata: core.Metadata{
				Text:          chunk.Text,
				ContentHash:   chunk.ContentHash,
				Title:         item.Title,
				Source:        item.Source,
				Type:          item.Type,
				Integration:   integration,
				ChunkIndex:    chunk.Index,
				SentenceCount: chunk.SentenceCount,
				WordCount:     chunk.WordCount,
				StartPos:      chunk.StartPos,
				EndPos:        chunk.EndPos,
				IngestedAt:    now,
				Timestamp:     timestamp,
			},
		})
	}
	return records
}

// Release releases the worker pool. The integrator must not be used after
// calling Release.
func (it *Integrator) Release() {
	if it.pool != nil {
		it.pool.Release()
	}
}
