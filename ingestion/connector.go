// Copyright 2025 Corvid Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"slices"

	"github.com/corvid-labs/magpie/core"
)

// Well-known connector priorities. Lower runs first, so when identical
// content arrives from multiple sources in one run the higher-priority
// source's record is the one that survives deduplication.
const (
	PriorityGitHub = 1
	PriorityNotion = 2
	PrioritySlack  = 3
	// PriorityDefault places connectors without an assigned priority after
	// the well-known ones.
	PriorityDefault = 100
)

// Connector fetches raw content items from an external source.
// Implementations must be safe for use from a single goroutine at a time;
// the Integrator never calls a connector concurrently with itself.
type Connector interface {
	// Name identifies the connector, e.g. "github". Stored in record
	// metadata as the integration tag.
	Name() string

	// Priority orders connectors within a multi-source run. Lower runs
	// first.
	Priority() int

	// Fetch returns the source's content items. Returns ErrNotConfigured
	// when the connector has no credentials.
	Fetch(ctx context.Context) ([]core.ContentItem, error)
}

// sortByPriority returns the connectors ordered by ascending priority,
// leaving the input untouched. Connectors with equal priority keep their
// relative order.
func sortByPriority(connectors []Connector) []Connector {
	sorted := slices.Clone(connectors)
	slices.SortStableFunc(sorted, func(a, b Connector) int {
		return a.Priority() - b.Priority()
	})
	return sorted
}
