package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corvid-labs/magpie/core"
)

const (
	// DefaultMaxRetries is the default attempt budget per store call.
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the default base for exponential backoff.
	DefaultBaseDelay = 1 * time.Second

	// DefaultDimension is the default expected embedding dimension.
	DefaultDimension = 768
)

// Gateway wraps an Index with retry, backoff, error classification, and
// dimension enforcement. It holds no mutable state and is safe for
// concurrent use.
type Gateway struct {
	index       Index
	maxRetries  int
	baseDelay   time.Duration
	dimension   int
	callTimeout time.Duration
	logger      *slog.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway) error

// WithMaxRetries sets the attempt budget per store call.
// Default is DefaultMaxRetries.
func WithMaxRetries(n int) GatewayOption {
	return func(g *Gateway) error {
		if n < 1 {
			return ErrInvalidMaxAttempts
		}
		g.maxRetries = n
		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Default is DefaultBaseDelay.
func WithBaseDelay(d time.Duration) GatewayOption {
	return func(g *Gateway) error {
		if d <= 0 {
			return fmt.Errorf("base delay must be positive, got %v", d)
		}
		g.baseDelay = d
		return nil
	}
}

// WithDimension sets the expected embedding dimension. Records and query
// vectors of any other length are rejected before reaching the store.
// Default is DefaultDimension.
func WithDimension(dim int) GatewayOption {
	return func(g *Gateway) error {
		if dim < 1 {
			return fmt.Errorf("dimension must be positive, got %d", dim)
		}
		g.dimension = dim
		return nil
	}
}

// WithCallTimeout bounds each individual store call. A timed-out call is
// classified as transient and retried like a connection failure. Zero
// disables the per-call bound.
func WithCallTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) error {
		if d < 0 {
			return fmt.Errorf("call timeout cannot be negative, got %v", d)
		}
		g.callTimeout = d
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) GatewayOption {
	return func(g *Gateway) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// NewGateway creates a gateway over the given index.
func NewGateway(index Index, opts ...GatewayOption) (*Gateway, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	g := &Gateway{
		index:      index,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		dimension:  DefaultDimension,
		logger:     slog.Default().With("component", "vectorstore"),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Dimension returns the expected embedding dimension.
func (g *Gateway) Dimension() int {
	return g.dimension
}

// Upsert writes a batch of records, retrying any failure with exponential
// backoff. After the retry budget is exhausted the last error is returned;
// earlier batches written in the same run are not rolled back, so upserts
// are at-least-once and non-transactional.
func (g *Gateway) Upsert(ctx context.Context, records []core.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	for i := range records {
		if err := core.ValidateRecord(&records[i]); err != nil {
			return err
		}
		if len(records[i].Embedding) != g.dimension {
			return fmt.Errorf("%w: record %s has %d values, index expects %d",
				ErrDimensionMismatch, records[i].ID, len(records[i].Embedding), g.dimension)
		}
	}

	err := RetryWithBackoff(ctx, func() error {
		return g.call(ctx, func(ctx context.Context) error {
			return g.index.Upsert(ctx, records)
		})
	}, g.maxRetries, g.baseDelay, RetryAll)
	if err != nil {
		g.logger.Error("all upsert attempts failed", "records", len(records), "err", err)
		return err
	}

	g.logger.Info("successfully upserted vectors", "records", len(records))
	return nil
}

// Query returns up to topK matches ranked by similarity, retrying with
// class-aware backoff: rate limits wait twice the normal delay, transient
// server errors wait the normal delay, anything else fails on the first
// attempt.
func (g *Gateway) Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]core.Match, error) {
	if topK < 1 {
		return nil, ErrInvalidTopK
	}
	if len(vector) != g.dimension {
		return nil, fmt.Errorf("%w: query vector has %d values, index expects %d",
			ErrDimensionMismatch, len(vector), g.dimension)
	}

	var matches []core.Match
	err := RetryWithBackoff(ctx, func() error {
		return g.call(ctx, func(ctx context.Context) error {
			var qerr error
			matches, qerr = g.index.Query(ctx, vector, topK, filter)
			return qerr
		})
	}, g.maxRetries, g.baseDelay, Classify)
	if err != nil {
		g.logger.Error("query failed", "topK", topK, "err", err)
		return nil, err
	}

	g.logger.Debug("query returned matches", "matches", len(matches))
	return matches, nil
}

// CheckHealth probes the index with a single zero-vector query and reports
// whether it completed without error. The probe is one attempt with no
// retries, so the gate stays cheap.
func (g *Gateway) CheckHealth(ctx context.Context) bool {
	probe := make([]float32, g.dimension)
	err := g.call(ctx, func(ctx context.Context) error {
		_, qerr := g.index.Query(ctx, probe, 1, nil)
		return qerr
	})
	if err != nil {
		g.logger.Error("index health check failed", "err", err)
		return false
	}
	return true
}

// GetStats returns index statistics, or nil if they could not be fetched.
// Stats are dashboarding data; failures are logged, never propagated.
func (g *Gateway) GetStats(ctx context.Context) *core.IndexStats {
	var stats *core.IndexStats
	err := g.call(ctx, func(ctx context.Context) error {
		var serr error
		stats, serr = g.index.Stats(ctx)
		return serr
	})
	if err != nil {
		g.logger.Error("failed to get index stats", "err", err)
		return nil
	}
	return stats
}

// call runs one store operation under the per-call timeout, if configured.
func (g *Gateway) call(ctx context.Context, op func(ctx context.Context) error) error {
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}
	return op(ctx)
}
