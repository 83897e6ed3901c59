package ingestion

import "errors"

var (
	// ErrNotConfigured is returned by a connector that has no credentials.
	// IntegrateAll skips such connectors; IntegrateSource reports the run
	// as failed.
	ErrNotConfigured = errors.New("connector is not configured")

	// ErrNoItems indicates a connector returned no content.
	ErrNoItems = errors.New("connector returned no items")

	// ErrConnectorRequired is returned when a connector is not provided.
	ErrConnectorRequired = errors.New("connector required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrGatewayRequired is returned when a vector store gateway is not
	// provided.
	ErrGatewayRequired = errors.New("vector store gateway required")
)
