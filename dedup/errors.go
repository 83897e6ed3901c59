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


package dedup

import "errors"

var (
	// ErrIndexClosed indicates that the dedup index is closed.
	ErrIndexClosed = errors.New("dedup index is closed")

	// ErrEmptyHash indicates an empty content hash was passed to the index.
	ErrEmptyHash = errors.New("empty content hash")

	// ErrSerializationFailed indicates an entry could not be decoded.
	ErrSerializationFailed = errors.New("serialization failed")
)
