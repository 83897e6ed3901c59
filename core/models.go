package core

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// SourceType classifies the kind of content an item carries.
type SourceType string

const (
	// SourceTypeDocument represents prose documents (readmes, wiki pages).
	SourceTypeDocument SourceType = "document"
	// SourceTypeCode represents source code files.
	SourceTypeCode SourceType = "code"
	// SourceTypeIssue represents issue or ticket content.
	SourceTypeIssue SourceType = "issue"
	// SourceTypeMessage represents chat messages.
	SourceTypeMessage SourceType = "message"
)

// ContentItem is one logical document or message handed to the pipeline by a
// connector. Items are immutable and discarded after chunking.
type ContentItem struct {
	Title   string
	Source  string // opaque locator, e.g. "github://owner/repo/path"
	Type    SourceType
	Content string
	// Timestamp is when the content was originally produced.
	// Zero means unknown; the pipeline substitutes ingestion time.
	Timestamp time.Time
}

// Chunk is a bounded, possibly overlapping slice of a ContentItem's content.
// Chunks are produced by the chunker, fingerprinted, embedded, and finally
// stored as vector records.
type Chunk struct {
	ID            string
	Text          string
	Index         int // 0-based, sequential within the parent item
	StartPos      int // byte offset of Text within the parent content
	EndPos        int // byte offset one past the end of Text
	SentenceCount int
	WordCount     int
	ContentHash   string
}

// NewChunkID generates a unique identifier for a chunk.
func NewChunkID() string {
	return uuid.NewString()
}

// Fingerprint computes a stable content digest over normalized (trimmed,
// case-preserved) text using BLAKE2b. Identical text always produces an
// identical fingerprint; the digest is collision-resistant for dedup
// purposes but is not meant as a cryptographic commitment.
func Fingerprint(text string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(h.Sum(nil))
}

// Metadata is the typed record attached to every stored vector.
// Fields the pipeline never inspects can be passed through in Extra.
type Metadata struct {
	Text          string            `json:"text"`
	ContentHash   string            `json:"content_hash"`
	Title         string            `json:"title"`
	Source        string            `json:"source"`
	Type          SourceType        `json:"type"`
	Integration   string            `json:"integration"` // connector name that produced the record
	ChunkIndex    int               `json:"chunk_index"`
	SentenceCount int               `json:"sentence_count"`
	WordCount     int               `json:"word_count"`
	StartPos      int               `json:"start_pos"`
	EndPos        int               `json:"end_pos"`
	IngestedAt    time.Time         `json:"ingested_at"`
	Timestamp     time.Time         `json:"timestamp"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// VectorRecord is the persisted unit: a chunk's embedding plus its metadata.
// Records are owned by the vector index once upserted; re-ingestion produces
// a new record under a new ID rather than mutating an existing one.
type VectorRecord struct {
	ID        string    `json:"id"`
	Embedding []float32 `json:"values"`
	Metadata  Metadata  `json:"metadata"`
}

// Match is one ranked result from a vector index query.
type Match struct {
	ID       string   `json:"id"`
	Score    float32  `json:"score"`
	Metadata Metadata `json:"metadata"`
}

// IndexStats describes the current state of a vector index.
type IndexStats struct {
	TotalVectorCount int64 `json:"total_vector_count"`
	Dimension        int   `json:"dimension"`
}

// IntegrationResult is the aggregate outcome of one source's integration run.
type IntegrationResult struct {
	Success           bool   `json:"success"`
	Integration       string `json:"integration"` // connector name
	Source            string `json:"source"`      // source locator reported by the connector
	ItemsProcessed    int    `json:"items_processed"`
	ChunksProcessed   int    `json:"chunks_processed"`
	ChunksStored      int    `json:"chunks_stored"`
	DuplicatesRemoved int    `json:"duplicates_removed"`
	Err               error  `json:"-"`
}

// ErrorMessage returns the failure message for a failed run, or "".
func (r *IntegrationResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// IntegrationSummary aggregates the results of one multi-source run.
// A source that is not configured is skipped and contributes nothing.
type IntegrationSummary struct {
	Results           []IntegrationResult `json:"integrations"`
	SourcesIntegrated []string            `json:"sources_integrated"`
	ChunksProcessed   int                 `json:"total_chunks_processed"`
	ChunksStored      int                 `json:"total_chunks_stored"`
	DuplicatesRemoved int                 `json:"total_duplicates_removed"`
}
