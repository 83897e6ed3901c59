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


package vectorstore

import "errors"

var (
	// ErrIndexRequired is returned when a gateway is constructed without an
	// index.
	ErrIndexRequired = errors.New("vector index required")

	// ErrRateLimited indicates the store rejected the call for exceeding its
	// rate limits. Retried with doubled backoff.
	ErrRateLimited = errors.New("vector store rate limited")

	// ErrUnavailable indicates a transient server-side failure. Retried with
	// normal backoff.
	ErrUnavailable = errors.New("vector store unavailable")

	// ErrBadRequest indicates the store rejected the request as malformed or
	// unauthorized. Never retried.
	ErrBadRequest = errors.New("vector store rejected request")

	// ErrDimensionMismatch indicates an embedding whose length differs from
	// the index's configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension does not match index dimension")

	// ErrInvalidTopK indicates a non-positive topK query parameter.
	ErrInvalidTopK = errors.New("topK must be greater than 0")

	// ErrInvalidMaxAttempts is returned when a retry budget is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
