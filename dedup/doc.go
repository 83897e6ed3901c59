// Package dedup removes duplicate chunks before they reach the vector store.
//
// Duplicates are detected by content hash: two chunks with the same
// normalized text produce the same hash, regardless of which source they
// arrived from. The Deduplicator always deduplicates within a batch
// (first occurrence wins, order preserved); with an Index attached it also
// skips hashes stored in earlier runs.
//
// The Index interface decouples hash bookkeeping from its backing store.
// The badger subpackage provides a persistent implementation.
package dedup
