package ingestion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/corvid-labs/magpie/ai/mock"
	"github.com/corvid-labs/magpie/chunker"
	"github.com/corvid-labs/magpie/core"
	dedupbadger "github.com/corvid-labs/magpie/dedup/badger"
	"github.com/corvid-labs/magpie/vectorstore"
	"github.com/corvid-labs/magpie/vectorstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 8

// fakeConnector is an in-test Connector with scripted items.
type fakeConnector struct {
	name     string
	priority int
	items    []core.ContentItem
	err      error

	mu      sync.Mutex
	fetched int
}

func (c *fakeConnector) Name() string  { return c.name }
func (c *fakeConnector) Priority() int { return c.priority }

func (c *fakeConnector) Fetch(ctx context.Context) ([]core.ContentItem, error) {
	c.mu.Lock()
	c.fetched++
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.items, nil
}

// failingIndex always fails upserts.
type failingIndex struct{}

func (failingIndex) Upsert(ctx context.Context, records []core.VectorRecord) error {
	return errors.New("store down")
}

func (failingIndex) Query(ctx context.Context, vector []float32, topK int, filter vectorstore.Filter) ([]core.Match, error) {
	return nil, errors.New("store down")
}

func (failingIndex) Stats(ctx context.Context) (*core.IndexStats, error) {
	return nil, errors.New("store down")
}

func testGateway(t *testing.T, index vectorstore.Index) *vectorstore.Gateway {
	t.Helper()
	gateway, err := vectorstore.NewGateway(index,
		vectorstore.WithDimension(testDimension),
		vectorstore.WithBaseDelay(time.Millisecond),
	)
	require.NoError(t, err)
	return gateway
}

func testEmbedder() *mock.MockEmbedder {
	return &mock.MockEmbedder{Dimension: testDimension}
}

func newTestIntegrator(t *testing.T, index vectorstore.Index, opts ...Option) *Integrator {
	t.Helper()
	it, err := NewIntegrator(testEmbedder(), testGateway(t, index), opts...)
	require.NoError(t, err)
	t.Cleanup(it.Release)
	return it
}

func githubItem() core.ContentItem {
	return core.ContentItem{
		Title:   "Readme",
		Source:  "github://x/y",
		Type:    core.SourceTypeDocument,
		Content: "Sentence one. Sentence two. Sentence three.",
	}
}

func TestNewIntegrator_Validation(t *testing.T) {
	gateway := testGateway(t, memory.NewIndex(testDimension))

	_, err := NewIntegrator(nil, gateway)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewIntegrator(testEmbedder(), nil)
	assert.ErrorIs(t, err, ErrGatewayRequired)
}

func TestIntegrateSource_StoresChunks(t *testing.T) {
	index := memory.NewIndex(testDimension)
	it := newTestIntegrator(t, index)

	conn := &fakeConnector{
		name:     "github",
		priority: PriorityGitHub,
		items:    []core.ContentItem{githubItem()},
	}

	result := it.IntegrateSource(context.Background(), conn)
	require.NoError(t, result.Err)
	assert.True(t, result.Success)
	assert.Equal(t, "github", result.Integration)
	assert.Equal(t, 1, result.ItemsProcessed)
	assert.Equal(t, 1, result.ChunksProcessed)
	assert.Equal(t, 1, result.ChunksStored)
	assert.Zero(t, result.DuplicatesRemoved)
	assert.Equal(t, 1, index.Len())
}

func TestIntegrateSource_RecordMetadata(t *testing.T) {
	index := memory.NewIndex(testDimension)
	it := newTestIntegrator(t, index)

	conn := &fakeConnector{
		name:  "github",
		items: []core.ContentItem{githubItem()},
	}

	result := it.IntegrateSource(context.Background(), conn)
	require.True(t, result.Success)

	matches, err := index.Query(context.Background(), make([]float32, testDimension), 1, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	meta := matches[0].Metadata
	assert.Equal(t, "Readme", meta.Title)
	assert.Equal(t, "github://x/y", meta.Source)
	assert.Equal(t, core.SourceTypeDocument, meta.Type)
	assert.Equal(t, "github", meta.Integration)
	assert.Equal(t, 0, meta.ChunkIndex)
	assert.Equal(t, core.Fingerprint(meta.Text), meta.ContentHash)
	assert.False(t, meta.IngestedAt.IsZero())
}

func TestIntegrateSource_RemovesDuplicateChunks(t *testing.T) {
	// maxTokens=2 with no overlap turns each repeated sentence into an
	// identical chunk, so the dedup path is exercised within one item.
	small, err := chunker.New(chunker.WithMaxTokens(2), chunker.WithOverlap(0))
	require.NoError(t, err)

	index := memory.NewIndex(testDimension)
	it := newTestIntegrator(t, index, WithChunker(small))

	conn := &fakeConnector{
		name: "github",
		items: []core.ContentItem{{
			Title:   "Repeats",
			Source:  "github://x/y",
			Type:    core.SourceTypeDocument,
			Content: "Alpha beta. Alpha beta.",
		}},
	}

	result := it.IntegrateSource(context.Background(), conn)
	require.True(t, result.Success)
	assert.Equal(t, 2, result.ChunksProcessed)
	assert.Equal(t, 1, result.ChunksStored)
	assert.Equal(t, 1, result.DuplicatesRemoved)
	assert.Equal(t, result.ChunksProcessed-result.ChunksStored, result.DuplicatesRemoved)
	assert.Equal(t, 1, index.Len())
}

func TestIntegrateSource_FetchError(t *testing.T) {
	it := newTestIntegrator(t, memory.NewIndex(testDimension))

	conn := &fakeConnector{name: "github", err: errors.New("api unavailable")}

	result := it.IntegrateSource(context.Background(), conn)
	assert.False(t, result.Success)
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, conn.err)
}

func TestIntegrateSource_NoItems(t *testing.T) {
	it := newTestIntegrator(t, memory.NewIndex(testDimension))

	conn := &fakeConnector{name: "notion"}

	result := it.IntegrateSource(context.Background(), conn)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, ErrNoItems)
}

func TestIntegrateSource_NotConfigured(t *testing.T) {
	it := newTestIntegrator(t, memory.NewIndex(testDimension))

	conn := &fakeConnector{name: "slack", err: ErrNotConfigured}

	result := it.IntegrateSource(context.Background(), conn)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, ErrNotConfigured)
}

func TestIntegrateSource_EmbedFailureSkipsChunk(t *testing.T) {
	small, err := chunker.New(chunker.WithMaxTokens(2), chunker.WithOverlap(0))
	require.NoError(t, err)

	embedder := testEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if text == "Bad sentence." {
			return nil, errors.New("embedding service hiccup")
		}
		vec := make([]float32, testDimension)
		vec[0] = 1
		return vec, nil
	}

	index := memory.NewIndex(testDimension)
	it, err := NewIntegrator(embedder, testGateway(t, index), WithChunker(small))
	require.NoError(t, err)
	t.Cleanup(it.Release)

	conn := &fakeConnector{
		name: "github",
		items: []core.ContentItem{{
			Title:   "Mixed",
			Source:  "github://x/y",
			Type:    core.SourceTypeDocument,
			Content: "Good sentence. Bad sentence.",
		}},
	}

	result := it.IntegrateSource(context.Background(), conn)
	require.True(t, result.Success, "a chunk-local embedding failure must not fail the run")
	assert.Equal(t, 2, result.ChunksProcessed)
	assert.Equal(t, 1, result.ChunksStored)
	assert.Equal(t, 1, index.Len())
}

func TestIntegrateSource_UpsertExhaustionAborts(t *testing.T) {
	it := newTestIntegrator(t, failingIndex{})

	conn := &fakeConnector{
		name:  "github",
		items: []core.ContentItem{githubItem(), githubItem()},
	}

	result := it.IntegrateSource(context.Background(), conn)
	assert.False(t, result.Success)
	require.Error(t, result.Err)
	assert.Equal(t, 1, result.ItemsProcessed, "the run stops at the first doomed upsert")
	assert.Zero(t, result.ChunksStored)
}

func TestIntegrateAll_PriorityOrderAndCrossSourceDedup(t *testing.T) {
	dedupIndex, err := dedupbadger.OpenIndex("", true)
	require.NoError(t, err)
	t.Cleanup(func() { dedupIndex.Close() })

	index := memory.NewIndex(testDimension)
	it := newTestIntegrator(t, index, WithDedupIndex(dedupIndex))

	shared := "Identical announcement text."
	slack := &fakeConnector{
		name:     "slack",
		priority: PrioritySlack,
		items: []core.ContentItem{{
			Title: "Announcement", Source: "slack://general",
			Type: core.SourceTypeMessage, Content: shared,
		}},
	}
	github := &fakeConnector{
		name:     "github",
		priority: PriorityGitHub,
		items: []core.ContentItem{{
			Title: "Announcement", Source: "github://x/y",
			Type: core.SourceTypeDocument, Content: shared,
		}},
	}

	// Passed out of order; priority sorting must run github first.
	summary := it.IntegrateAll(context.Background(), []Connector{slack, github})

	require.Len(t, summary.Results, 2)
	assert.Equal(t, "github", summary.Results[0].Integration)
	assert.Equal(t, "slack", summary.Results[1].Integration)

	assert.Equal(t, 2, summary.ChunksProcessed)
	assert.Equal(t, 1, summary.ChunksStored)
	assert.Equal(t, 1, summary.DuplicatesRemoved)

	// The surviving record carries the higher-priority source's tag.
	require.Equal(t, 1, index.Len())
	matches, err := index.Query(context.Background(), make([]float32, testDimension), 1, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "github", matches[0].Metadata.Integration)
}

func TestIntegrateAll_SkipsUnconfiguredAndEmptySources(t *testing.T) {
	index := memory.NewIndex(testDimension)
	it := newTestIntegrator(t, index)

	github := &fakeConnector{
		name:     "github",
		priority: PriorityGitHub,
		items:    []core.ContentItem{githubItem()},
	}
	notion := &fakeConnector{name: "notion", priority: PriorityNotion, err: ErrNotConfigured}
	slack := &fakeConnector{name: "slack", priority: PrioritySlack}

	summary := it.IntegrateAll(context.Background(), []Connector{github, notion, slack})

	require.Len(t, summary.Results, 1, "unconfigured and empty sources are skipped, not failed")
	assert.Equal(t, []string{"github"}, summary.SourcesIntegrated)
	assert.Equal(t, 1, summary.ChunksStored)
	assert.Equal(t, 1, notion.fetched)
	assert.Equal(t, 1, slack.fetched)
}

func TestIntegrateAll_OneFailureDoesNotAbortOthers(t *testing.T) {
	index := memory.NewIndex(testDimension)
	it := newTestIntegrator(t, index)

	github := &fakeConnector{
		name:     "github",
		priority: PriorityGitHub,
		err:      errors.New("token expired"),
	}
	slack := &fakeConnector{
		name:     "slack",
		priority: PrioritySlack,
		items: []core.ContentItem{{
			Title: "Thread", Source: "slack://general",
			Type: core.SourceTypeMessage, Content: "A message worth keeping.",
		}},
	}

	summary := it.IntegrateAll(context.Background(), []Connector{github, slack})

	require.Len(t, summary.Results, 2)
	assert.False(t, summary.Results[0].Success)
	assert.True(t, summary.Results[1].Success)
	assert.Equal(t, []string{"slack"}, summary.SourcesIntegrated)
	assert.Equal(t, 1, index.Len())
}

func TestIntegrateSource_NilConnector(t *testing.T) {
	it := newTestIntegrator(t, memory.NewIndex(testDimension))

	result := it.IntegrateSource(context.Background(), nil)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, ErrConnectorRequired)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "fetching", StageFetching.String())
	assert.Equal(t, "upserting", StageUpserting.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
