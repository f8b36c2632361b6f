// Copyright 2025 Scribeworks
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


package paperdex

import (
	"context"
	"log/slog"
	"time"

	"github.com/scribeworks/paperdex/chunker"
	"github.com/scribeworks/paperdex/core"
	"github.com/scribeworks/paperdex/extract"
	"github.com/scribeworks/paperdex/ingestion"
	"github.com/scribeworks/paperdex/search"
	"github.com/scribeworks/paperdex/storage"
	"github.com/scribeworks/paperdex/storage/badger"
)

// Engine wires the document search core together: storage backend,
// ingestion pipeline, and searcher behind one handle.
type Engine struct {
	backend      *badger.Backend
	chunks       storage.ChunkStore
	fingerprints storage.FingerprintIndex
	pipeline     *ingestion.Pipeline
	searcher     *search.Searcher
	queryTimeout time.Duration
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	chunkSize    int
	chunkOverlap int
	poolSize     int
	opTimeout    time.Duration
	extractors   *extract.Registry
	searchOpts   []search.Option
}

// WithChunking overrides the chunk size and overlap, in runes.
func WithChunking(size, overlap int) EngineOption {
	return func(o *engineOptions) {
		o.chunkSize = size
		o.chunkOverlap = overlap
	}
}

// WithPoolSize sets the ingestion worker pool size.
func WithPoolSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.poolSize = size
	}
}

// WithOperationTimeout bounds each storage write and each search query.
// Default is 30 seconds.
func WithOperationTimeout(timeout time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.opTimeout = timeout
	}
}

// WithExtractors replaces the default extractor registry.
func WithExtractors(r *extract.Registry) EngineOption {
	return func(o *engineOptions) {
		o.extractors = r
	}
}

// WithSearchOptions forwards options to the searcher (boost weights,
// result limits, highlighting bounds).
func WithSearchOptions(opts ...search.Option) EngineOption {
	return func(o *engineOptions) {
		o.searchOpts = append(o.searchOpts, opts...)
	}
}

// NewEngine opens (or creates) the index at filePath and assembles the
// ingestion and search components around it.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		chunkSize:    chunker.DefaultSize,
		chunkOverlap: chunker.DefaultOverlap,
		opTimeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(options)
	}

	ch, err := chunker.New(options.chunkSize, options.chunkOverlap)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	return assembleEngine(backend, ch, options)
}

// NewMemoryEngine assembles an engine over an in-memory backend. Intended
// for tests and ephemeral indexes.
func NewMemoryEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		chunkSize:    chunker.DefaultSize,
		chunkOverlap: chunker.DefaultOverlap,
		opTimeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(options)
	}

	ch, err := chunker.New(options.chunkSize, options.chunkOverlap)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	return assembleEngine(backend, ch, options)
}

func assembleEngine(backend *badger.Backend, ch *chunker.Chunker, options *engineOptions) (*Engine, error) {
	chunks, err := badger.NewChunkStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	fingerprints, err := badger.NewFingerprintIndex(backend)
	if err != nil {
		chunks.Close()
		backend.Close()
		return nil, err
	}

	pipelineOpts := []ingestion.Option{
		ingestion.WithChunker(ch),
		ingestion.WithWriteTimeout(options.opTimeout),
	}
	if options.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(options.poolSize))
	}
	if options.extractors != nil {
		pipelineOpts = append(pipelineOpts, ingestion.WithExtractors(options.extractors))
	}

	pipeline, err := ingestion.NewPipeline(chunks, fingerprints, pipelineOpts...)
	if err != nil {
		fingerprints.Close()
		chunks.Close()
		backend.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(chunks, options.searchOpts...)
	if err != nil {
		pipeline.Release()
		fingerprints.Close()
		chunks.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:      backend,
		chunks:       chunks,
		fingerprints: fingerprints,
		pipeline:     pipeline,
		searcher:     searcher,
		queryTimeout: options.opTimeout,
		logger:       slog.Default(),
	}, nil
}

// Ingest runs one document through the pipeline.
func (e *Engine) Ingest(ctx context.Context, data []byte, filename string) (*ingestion.Result, error) {
	return e.pipeline.Ingest(ctx, data, filename)
}

// IngestAll ingests several documents concurrently.
func (e *Engine) IngestAll(ctx context.Context, files []ingestion.File) []ingestion.FileResult {
	return e.pipeline.IngestAll(ctx, files)
}

// Search returns up to limit ranked, highlighted results.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]*core.SearchResult, error) {
	if e.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.queryTimeout)
		defer cancel()
	}
	return e.searcher.Search(ctx, query, limit)
}

// Stats reports index totals, read through from the store.
func (e *Engine) Stats(ctx context.Context) (*storage.Stats, error) {
	return e.chunks.Stats(ctx)
}

// Health reports the storage collaborator's availability.
func (e *Engine) Health(ctx context.Context) storage.HealthStatus {
	return e.chunks.Health(ctx)
}

// ChunkStore exposes the underlying store.
func (e *Engine) ChunkStore() storage.ChunkStore {
	return e.chunks
}

// FingerprintIndex exposes the underlying fingerprint index.
func (e *Engine) FingerprintIndex() storage.FingerprintIndex {
	return e.fingerprints
}

func (e *Engine) Close() error {
	e.pipeline.Release()

	if err := e.fingerprints.Close(); err != nil {
		e.logger.Error("error closing fingerprint index", "err", err)
		return err
	}
	if err := e.chunks.Close(); err != nil {
		e.logger.Error("error closing chunk store", "err", err)
		return err
	}

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
