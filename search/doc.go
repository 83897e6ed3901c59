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


// Package search provides semantic retrieval over the vector index.
//
// The Searcher embeds a query and runs a ranked similarity search through
// the vector store gateway. Before spending embedding budget it probes the
// index with a health check; an unreachable index fails fast instead of
// wasting a remote embedding call on a query that cannot be answered.
//
// Results keep the gateway's similarity ranking, with a small boost for
// matches whose text contains every significant query word verbatim.
package search
