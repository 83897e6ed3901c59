package magpie

import (
	"context"
	"testing"

	"github.com/corvid-labs/magpie/ai"
	"github.com/corvid-labs/magpie/ai/mock"
	"github.com/corvid-labs/magpie/core"
	"github.com/corvid-labs/magpie/ingestion"
	"github.com/corvid-labs/magpie/vectorstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 8

func newTestStack(t *testing.T, opts ...StackOption) *Stack {
	t.Helper()
	base := []StackOption{
		WithAIConfig(ai.NewConfig(ai.WithDimension(testDimension))),
		WithEmbedder(&mock.MockEmbedder{Dimension: testDimension}),
	}
	s, err := NewStack(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// stubConnector serves fixed items.
type stubConnector struct {
	items []core.ContentItem
}

func (stubConnector) Name() string  { return "stub" }
func (stubConnector) Priority() int { return ingestion.PriorityDefault }

func (c stubConnector) Fetch(ctx context.Context) ([]core.ContentItem, error) {
	return c.items, nil
}

func TestNewStack_Defaults(t *testing.T) {
	s := newTestStack(t)

	assert.NotNil(t, s.Embedder())
	assert.NotNil(t, s.Gateway())
	assert.Nil(t, s.DedupIndex())
	assert.Equal(t, testDimension, s.Gateway().Dimension())
}

func TestStack_IntegrateAndSearch(t *testing.T) {
	index := memory.NewIndex(testDimension)
	s := newTestStack(t, WithIndex(index))

	integrator, err := s.NewIntegrator()
	require.NoError(t, err)
	defer integrator.Release()

	conn := stubConnector{items: []core.ContentItem{{
		Title:   "Runbook",
		Source:  "file://runbook.md",
		Type:    core.SourceTypeDocument,
		Content: "Restart the ingestion service after a config change.",
	}}}

	result := integrator.IntegrateSource(context.Background(), conn)
	require.True(t, result.Success)
	require.Equal(t, 1, index.Len())

	searcher, err := s.NewSearcher()
	require.NoError(t, err)

	matches, err := searcher.FindSimilar(context.Background(), "restart ingestion service", 5, nil)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Runbook", matches[0].Metadata.Title)
}

func TestStack_DedupIndexSpansRuns(t *testing.T) {
	s := newTestStack(t, WithDedupPath(""))
	require.NotNil(t, s.DedupIndex())

	conn := stubConnector{items: []core.ContentItem{{
		Title:   "Note",
		Source:  "file://note.txt",
		Type:    core.SourceTypeDocument,
		Content: "The same note text every run.",
	}}}

	integrator, err := s.NewIntegrator()
	require.NoError(t, err)
	defer integrator.Release()

	first := integrator.IntegrateSource(context.Background(), conn)
	require.True(t, first.Success)
	assert.Equal(t, 1, first.ChunksStored)

	second := integrator.IntegrateSource(context.Background(), conn)
	require.True(t, second.Success)
	assert.Zero(t, second.ChunksStored, "re-running the same content stores nothing new")
	assert.Equal(t, 1, second.DuplicatesRemoved)
}

func TestStack_DedupPathPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	conn := stubConnector{items: []core.ContentItem{{
		Title:   "Note",
		Source:  "file://note.txt",
		Type:    core.SourceTypeDocument,
		Content: "Persistent note content.",
	}}}

	s := newTestStack(t, WithDedupPath(dir))
	integrator, err := s.NewIntegrator()
	require.NoError(t, err)
	first := integrator.IntegrateSource(ctx, conn)
	require.True(t, first.Success)
	assert.Equal(t, 1, first.ChunksStored)
	integrator.Release()
	require.NoError(t, s.Close())

	// A fresh stack over the same path remembers the stored hashes.
	s2 := newTestStack(t, WithDedupPath(dir))
	integrator2, err := s2.NewIntegrator()
	require.NoError(t, err)
	defer integrator2.Release()

	second := integrator2.IntegrateSource(ctx, conn)
	require.True(t, second.Success)
	assert.Zero(t, second.ChunksStored)
}
