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


package magpie

import (
	"io"
	"log/slog"

	"github.com/corvid-labs/magpie/ai"
	"github.com/corvid-labs/magpie/ai/openai"
	"github.com/corvid-labs/magpie/dedup"
	dedupbadger "github.com/corvid-labs/magpie/dedup/badger"
	"github.com/corvid-labs/magpie/ingestion"
	"github.com/corvid-labs/magpie/search"
	"github.com/corvid-labs/magpie/vectorstore"
	"github.com/corvid-labs/magpie/vectorstore/memory"
)

// Stack is the assembled pipeline: embedder, vector store gateway, and the
// optional persistent dedup index. It is the single handle a process
// constructs at startup and passes to everything that needs the pipeline,
// instead of package-level singletons.
type Stack struct {
	embedder   ai.Embedder
	index      vectorstore.Index
	gateway    *vectorstore.Gateway
	dedupIndex dedup.Index
	ownsDedup  bool
	logger     *slog.Logger
}

// StackOption configures a Stack.
type StackOption func(*stackOptions)

type stackOptions struct {
	aiConfig    *ai.Config
	embedder    ai.Embedder
	index       vectorstore.Index
	dedupPath   string
	withDedup   bool
	gatewayOpts []vectorstore.GatewayOption
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) StackOption {
	return func(o *stackOptions) {
		o.aiConfig = config
	}
}

// WithEmbedder replaces the default OpenAI-compatible embedder, e.g. with a
// mock for tests and dry runs.
func WithEmbedder(embedder ai.Embedder) StackOption {
	return func(o *stackOptions) {
		o.embedder = embedder
	}
}

// WithIndex sets the vector index backing the gateway. Default is an
// in-memory index, which is only useful for tests and dry runs.
func WithIndex(index vectorstore.Index) StackOption {
	return func(o *stackOptions) {
		o.index = index
	}
}

// WithDedupPath enables the persistent content-hash index at the given
// directory, so content stored in earlier runs is not stored again. An empty
// path keeps the index in memory.
func WithDedupPath(path string) StackOption {
	return func(o *stackOptions) {
		o.dedupPath = path
		o.withDedup = true
	}
}

// WithGatewayOptions passes extra options to the vector store gateway.
func WithGatewayOptions(opts ...vectorstore.GatewayOption) StackOption {
	return func(o *stackOptions) {
		o.gatewayOpts = append(o.gatewayOpts, opts...)
	}
}

// NewStack assembles a pipeline stack.
func NewStack(opts ...StackOption) (*Stack, error) {
	options := &stackOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	embedder := options.embedder
	if embedder == nil {
		var err error
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	index := options.index
	if index == nil {
		index = memory.NewIndex(options.aiConfig.Dimension)
	}

	gatewayOpts := append(
		[]vectorstore.GatewayOption{vectorstore.WithDimension(options.aiConfig.Dimension)},
		options.gatewayOpts...,
	)
	gateway, err := vectorstore.NewGateway(index, gatewayOpts...)
	if err != nil {
		return nil, err
	}

	s := &Stack{
		embedder: embedder,
		index:    index,
		gateway:  gateway,
		logger:   slog.Default().With("component", "stack"),
	}

	if options.withDedup {
		dedupIndex, err := dedupbadger.OpenIndex(options.dedupPath, options.dedupPath == "")
		if err != nil {
			s.Close()
			return nil, err
		}
		s.dedupIndex = dedupIndex
		s.ownsDedup = true
	}

	return s, nil
}

// Embedder returns the stack's embedder.
func (s *Stack) Embedder() ai.Embedder {
	return s.embedder
}

// Gateway returns the stack's vector store gateway.
func (s *Stack) Gateway() *vectorstore.Gateway {
	return s.gateway
}

// DedupIndex returns the persistent dedup index, or nil when not enabled.
func (s *Stack) DedupIndex() dedup.Index {
	return s.dedupIndex
}

// NewIntegrator creates an integrator wired to the stack. The stack's dedup
// index, when enabled, is attached unless the options override it.
func (s *Stack) NewIntegrator(opts ...ingestion.Option) (*ingestion.Integrator, error) {
	if s.dedupIndex != nil {
		opts = append([]ingestion.Option{ingestion.WithDedupIndex(s.dedupIndex)}, opts...)
	}
	return ingestion.NewIntegrator(s.embedder, s.gateway, opts...)
}

// NewSearcher creates a searcher wired to the stack.
func (s *Stack) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(s.embedder, s.gateway, opts...)
}

// Close releases the stack's owned resources: the dedup index it opened and
// the vector index, when the index is closeable.
func (s *Stack) Close() error {
	var firstErr error

	if s.ownsDedup && s.dedupIndex != nil {
		if err := s.dedupIndex.Close(); err != nil {
			s.logger.Error("error closing dedup index", "err", err)
			firstErr = err
		}
	}

	if closer, ok := s.index.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.Error("error closing vector index", "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
