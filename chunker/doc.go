// Package chunker splits raw text into overlapping, size-bounded chunks.
//
// A Chunker accumulates whole sentences until the configured token budget is
// reached, then closes the chunk and slides back by the configured overlap so
// that consecutive chunks share trailing context. Queries that span a chunk
// boundary can therefore still retrieve relevant context.
//
// Token counts are approximated by whitespace-separated word counts by
// default; a model-accurate counter can be plugged in via WithTokenCounter.
//
// Chunking is a pure function of its inputs: a Chunker holds only
// configuration and is safe for concurrent use.
package chunker
