// Package pgvector implements vectorstore.Index on Postgres with the
// pgvector extension.
//
// Records live in a single table keyed by chunk ID, with the embedding in a
// pgvector column and the typed metadata as JSONB. Queries rank by cosine
// distance and filters are applied against the JSONB metadata fields.
package pgvector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/corvid-labs/magpie/core"
	"github.com/corvid-labs/magpie/vectorstore"
)

const defaultTable = "magpie_vectors"

// Store is a Postgres/pgvector-backed vector index.
type Store struct {
	db        *sqlx.DB
	table     string
	dimension int
	logger    *slog.Logger
}

var _ vectorstore.Index = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTable overrides the default table name.
func WithTable(table string) Option {
	return func(s *Store) {
		if table != "" {
			s.table = table
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open connects to Postgres and returns a Store. The caller owns the
// connection lifetime via Close.
func Open(dsn string, dimension int, opts ...Option) (*Store, error) {
	if dimension < 1 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dimension)
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return NewStore(db, dimension, opts...), nil
}

// NewStore wraps an existing connection pool.
func NewStore(db *sqlx.DB, dimension int, opts ...Option) *Store {
	s := &Store{
		db:        db,
		table:     defaultTable,
		dimension: dimension,
		logger:    slog.Default().With("component", "pgvector-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates the vector extension, the table, and the cosine
// index if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			embedding vector(%d) NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.table, s.dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx
			ON %s USING hnsw (embedding vector_cosine_ops)`, s.table, s.table),
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert writes records in one batched INSERT, overwriting on ID conflict.
func (s *Store) Upsert(ctx context.Context, records []core.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := sq.Insert(s.table).Columns("id", "embedding", "metadata")
	for _, record := range records {
		if len(record.Embedding) != s.dimension {
			return fmt.Errorf("%w: record %s has %d values, index expects %d",
				vectorstore.ErrBadRequest, record.ID, len(record.Embedding), s.dimension)
		}
		meta, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("%w: marshal metadata for %s: %v", vectorstore.ErrBadRequest, record.ID, err)
		}
		query = query.Values(record.ID, pgv.NewVector(record.Embedding), meta)
	}
	query = query.Suffix(`ON CONFLICT (id) DO UPDATE SET
		embedding = EXCLUDED.embedding,
		metadata = EXCLUDED.metadata,
		updated_at = now()`)

	queryString, args, err := query.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("%w: build upsert: %v", vectorstore.ErrBadRequest, err)
	}

	if _, err := s.db.ExecContext(ctx, queryString, args...); err != nil {
		return fmt.Errorf("upsert %d vectors: %w", len(records), err)
	}

	s.logger.Debug("upserted vectors", "records", len(records))
	return nil
}

type matchRow struct {
	ID       string  `db:"id"`
	Metadata []byte  `db:"metadata"`
	Score    float64 `db:"score"`
}

// Query ranks records by cosine similarity to vector, applying the filter
// against JSONB metadata fields.
func (s *Store) Query(ctx context.Context, vector []float32, topK int, filter vectorstore.Filter) ([]core.Match, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has %d values, index expects %d",
			vectorstore.ErrBadRequest, len(vector), s.dimension)
	}

	vec := pgv.NewVector(vector)
	query := sq.Select("id", "metadata").
		Column(sq.Expr("1 - (embedding <=> ?) AS score", vec)).
		From(s.table)
	for key, want := range filter {
		query = query.Where(sq.Expr("metadata->>? = ?", key, want))
	}
	query = query.
		OrderByClause(sq.Expr("embedding <=> ?", vec)).
		Limit(uint64(topK))

	queryString, args, err := query.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build query: %v", vectorstore.ErrBadRequest, err)
	}

	var rows []matchRow
	if err := s.db.SelectContext(ctx, &rows, queryString, args...); err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}

	matches := make([]core.Match, 0, len(rows))
	for _, row := range rows {
		var meta core.Metadata
		if err := json.Unmarshal(row.Metadata, &meta); err != nil {
			s.logger.Warn("skipping match with malformed metadata", "id", row.ID, "err", err)
			continue
		}
		matches = append(matches, core.Match{
			ID:       row.ID,
			Score:    float32(row.Score),
			Metadata: meta,
		})
	}
	return matches, nil
}

// Stats reports the stored vector count and configured dimension.
func (s *Store) Stats(ctx context.Context) (*core.IndexStats, error) {
	queryString, args, err := sq.Select("count(*)").From(s.table).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build stats query: %v", vectorstore.ErrBadRequest, err)
	}

	var count int64
	if err := s.db.GetContext(ctx, &count, queryString, args...); err != nil {
		return nil, fmt.Errorf("count vectors: %w", err)
	}

	return &core.IndexStats{
		TotalVectorCount: count,
		Dimension:        s.dimension,
	}, nil
}
