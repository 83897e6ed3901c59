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


// Package ai provides the abstraction over the remote embedding service.
//
// The pipeline treats embedding as a single blocking call per chunk of text.
// This package defines the Embedder interface the rest of the module depends
// on, so that the core pipeline never couples to a concrete provider.
//
// # Implementation Packages
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles with no external dependencies
//
// # Failure Contract
//
// An Embedder signals failure through an error or an empty vector. Callers in
// the ingestion pipeline treat either as a per-chunk soft failure: the chunk
// is skipped and the rest of the batch continues.
package ai
