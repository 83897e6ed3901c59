// Package ingestion orchestrates the pipeline from source connectors to the
// vector index.
//
// The Integrator runs each source through a fixed sequence of stages:
// fetching, chunking, embedding, deduplicating, upserting. Embedding calls
// run on a bounded worker pool since they dominate latency; upserts stay
// batched per item to limit request volume against the store.
//
// Failure handling follows three levels: a chunk whose embedding fails is
// skipped; an item whose processing fails contributes zero stored chunks but
// does not stop the source; an upsert that exhausts its retries aborts the
// source's run. In a multi-source run one source's failure never aborts the
// others.
package ingestion
