// Package vectorstore provides a resilient gateway to an external vector
// index.
//
// The vector database itself is a black box behind the Index interface:
// a service exposing batched upsert, ranked nearest-neighbor query, and
// stats. The Gateway wraps an Index with the failure handling the pipeline
// needs against a rate-limited remote store:
//
//   - Upserts retry with exponential backoff on any failure; exhausting the
//     retry budget propagates the error so callers can stop further doomed
//     writes.
//   - Queries retry with class-aware backoff: rate-limit errors wait twice
//     the normal delay, transient server errors wait the normal delay, and
//     everything else fails on the first attempt - retrying a malformed
//     query only wastes time and masks bugs.
//   - CheckHealth issues a minimal zero-vector probe, used as a pre-flight
//     gate before spending embedding budget on work that could not be
//     persisted or queried.
//   - Stats failures are non-fatal and reported as absent stats.
//
// Implementations of Index live in the subpackages: vectorstore/pgvector for
// Postgres with the pgvector extension, and vectorstore/memory for tests and
// dry runs.
package vectorstore
