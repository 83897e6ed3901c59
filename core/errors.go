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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidContentItem indicates a ContentItem failed validation.
	ErrInvalidContentItem = errors.New("invalid content item")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidRecord indicates a VectorRecord failed validation.
	ErrInvalidRecord = errors.New("invalid vector record")

	// ErrEmptyContent indicates the content text is empty or whitespace-only.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptySource indicates the source locator is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrEmptyEmbedding indicates a record carries no embedding vector.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")

	// ErrChunkBounds indicates a chunk's positional offsets are inconsistent.
	ErrChunkBounds = errors.New("chunk start position must precede end position")
)
