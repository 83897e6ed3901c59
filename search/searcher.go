package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/corvid-labs/magpie/ai"
	"github.com/corvid-labs/magpie/core"
	"github.com/corvid-labs/magpie/vectorstore"
)

// verbatimBoost is added to a match's score when its text contains every
// significant query word.
const verbatimBoost = 0.3

// Searcher answers semantic queries against the vector index.
type Searcher struct {
	embedder ai.Embedder
	gateway  *vectorstore.Gateway
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(embedder ai.Embedder, gateway *vectorstore.Gateway, opts ...Option) (*Searcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if gateway == nil {
		return nil, ErrGatewayRequired
	}

	s := &Searcher{
		embedder: embedder,
		gateway:  gateway,
		logger:   slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar returns up to topK matches for the query, ranked by relevance.
// An optional metadata filter restricts candidates, e.g. to one integration.
func (s *Searcher) FindSimilar(ctx context.Context, query string, topK int, filter vectorstore.Filter) ([]core.Match, error) {
	return s.FindSimilarWithMonitor(ctx, query, topK, filter, nil)
}

// FindSimilarWithMonitor is FindSimilar with stage callbacks.
// The index is probed before the query is embedded; an unhealthy index
// returns ErrIndexUnhealthy without any embedding call being made.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, topK int, filter vectorstore.Filter, monitor SearchMonitor) ([]core.Match, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(query)

	healthy := s.gateway.CheckHealth(ctx)
	monitor.AfterHealthCheck(healthy)
	if !healthy {
		s.logger.Error("index health check failed, refusing query", "query", query)
		return nil, ErrIndexUnhealthy
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if len(embedding) == 0 {
		return nil, ErrEmbeddingFailed
	}
	monitor.AfterEmbedding(embedding)

	matches, err := s.gateway.Query(ctx, embedding, topK, filter)
	if err != nil {
		return nil, err
	}
	monitor.AfterQuery(matches)

	boosted := false
	for i := range matches {
		if containsAllQueryWords(matches[i].Metadata.Text, query) {
			matches[i].Score += verbatimBoost
			boosted = true
			monitor.VerbatimHit(matches[i])
		}
	}
	if boosted {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Score > matches[j].Score
		})
	}

	s.logger.Debug("search complete", "query", query, "matches", len(matches))
	monitor.Finish(matches)
	return matches, nil
}
