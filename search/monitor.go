package search

import "github.com/corvid-labs/magpie/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during
// search.
type SearchMonitor interface {
	Start(query string)
	AfterHealthCheck(healthy bool)
	AfterEmbedding(vector []float32)
	AfterQuery(matches []core.Match)
	VerbatimHit(match core.Match)
	Finish(results []core.Match)
}

// noopMonitor is a no-op implementation of SearchMonitor.
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)             {}
func (n *noopMonitor) AfterHealthCheck(_ bool)    {}
func (n *noopMonitor) AfterEmbedding(_ []float32) {}
func (n *noopMonitor) AfterQuery(_ []core.Match)  {}
func (n *noopMonitor) VerbatimHit(_ core.Match)   {}
func (n *noopMonitor) Finish(_ []core.Match)      {}
