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

import (
	"fmt"
	"strings"
)

// ValidateContentItem validates a ContentItem according to domain rules.
//
// Validation rules:
//   - Content must not be empty or whitespace-only
//   - Source must not be empty
//
// NOT validated:
//   - Title (connectors may legitimately omit it)
//   - Type (unknown types are passed through as-is)
func ValidateContentItem(item *ContentItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidContentItem)
	}

	if strings.TrimSpace(item.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, ErrEmptyContent)
	}

	if item.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContentItem, ErrEmptySource)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - StartPos must precede EndPos
//
// NOT validated (populated later in the pipeline):
//   - ContentHash (set by the fingerprinting step)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.StartPos >= chunk.EndPos {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrChunkBounds)
	}

	return nil
}

// ValidateRecord validates a VectorRecord before it is handed to a vector
// index.
//
// Validation rules:
//   - ID must not be empty
//   - Embedding must not be empty
//
// Dimension agreement with the index is enforced by the store gateway, not
// here, since the expected dimension is gateway configuration.
func ValidateRecord(record *VectorRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidRecord)
	}

	if len(record.Embedding) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyEmbedding)
	}

	return nil
}
