package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/scribeworks/paperdex/chunker"
	"github.com/scribeworks/paperdex/core"
	"github.com/scribeworks/paperdex/extract"
	"github.com/scribeworks/paperdex/storage"
)

// Outcome is the result of the duplicate gate for one document.
type Outcome int

const (
	// Accepted means the document was new and has been indexed.
	Accepted Outcome = iota + 1
	// Duplicate means byte-identical content was already indexed.
	// It is a normal signal, not an error.
	Duplicate
)

// Result describes a completed ingestion.
type Result struct {
	Document *core.Document
	Outcome  Outcome
}

// File is one document submitted for ingestion.
type File struct {
	Name string
	Data []byte
}

// FileResult pairs a file with its ingestion outcome.
type FileResult struct {
	Filename string
	Result   *Result
	Err      error
}

// Pipeline orchestrates extraction, chunking, deduplication, and indexing.
// Independent documents may be ingested concurrently.
type Pipeline struct {
	chunks       storage.ChunkStore
	fingerprints storage.FingerprintIndex
	extractors   *extract.Registry
	chunker      *chunker.Chunker
	pool         *ants.Pool
	writeTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithWriteTimeout bounds each document's storage writes (the duplicate
// gate and the chunk batch). Zero disables the bound. A timed-out write
// is reported as an indexing failure, not retried here.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout < 0 {
			timeout = 0
		}
		p.writeTimeout = timeout
		return nil
	}
}

// WithChunker replaces the default chunker (size 1000, overlap 200).
func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) error {
		if c != nil {
			p.chunker = c
		}
		return nil
	}
}

// WithExtractors replaces the default extractor registry.
func WithExtractors(r *extract.Registry) Option {
	return func(p *Pipeline) error {
		if r != nil {
			p.extractors = r
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunks storage.ChunkStore,
	fingerprints storage.FingerprintIndex,
	opts ...Option,
) (*Pipeline, error) {
	if chunks == nil {
		return nil, ErrChunkStoreRequired
	}
	if fingerprints == nil {
		return nil, ErrFingerprintIndexRequired
	}

	defaultChunker, err := chunker.New(chunker.DefaultSize, chunker.DefaultOverlap)
	if err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunks:       chunks,
		fingerprints: fingerprints,
		extractors:   extract.DefaultRegistry(),
		chunker:      defaultChunker,
		pool:         pool,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest processes one document through the full pipeline. A Duplicate
// outcome reports the already-registered document ID and is not an error.
// Failures carry a DocumentError naming the document and the failed stage.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, filename string) (*Result, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	fingerprint := core.FingerprintOf(data)
	docID := fingerprint.ID()

	extractor, err := p.extractors.ForFilename(filename)
	if err != nil {
		return nil, &DocumentError{Filename: filename, Stage: StageExtraction, Err: err}
	}

	text, err := extractor.Extract(ctx, data)
	if err != nil {
		return nil, &DocumentError{Filename: filename, Stage: StageExtraction, Err: err}
	}

	chunks := p.chunker.Split(text)

	doc := &core.Document{
		Id:          docID,
		Filename:    filename,
		Fingerprint: fingerprint,
		UploadedAt:  time.Now().UTC(),
		ChunkCount:  len(chunks),
	}

	writeCtx := ctx
	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	outcome, err := p.fingerprints.ConditionalInsert(writeCtx, fingerprint, docID)
	if err != nil {
		return nil, &DocumentError{Filename: filename, Stage: StageIndexing, Err: err}
	}
	if outcome == storage.AlreadyExists {
		p.logger.Debug("duplicate document rejected", "filename", filename, "fingerprint", fingerprint.Hex())
		return &Result{Document: doc, Outcome: Duplicate}, nil
	}

	records := make([]*core.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = &core.ChunkRecord{
			DocumentId:  docID,
			Filename:    filename,
			Seq:         chunk.Seq,
			Start:       chunk.Start,
			End:         chunk.End,
			Content:     chunk.Text,
			Fingerprint: fingerprint,
			UploadedAt:  doc.UploadedAt,
		}
	}

	if err := p.chunks.PutChunks(writeCtx, doc, records); err != nil {
		// Roll back the gate so a whole-document retry is not
		// misreported as Duplicate. The write was atomic, so no
		// chunks of this document are searchable.
		if rbErr := p.fingerprints.Unregister(context.WithoutCancel(ctx), fingerprint); rbErr != nil {
			p.logger.Error("failed to roll back fingerprint after indexing failure",
				"filename", filename, "fingerprint", fingerprint.Hex(), "err", rbErr)
		}
		return nil, &DocumentError{Filename: filename, Stage: StageIndexing, Err: err}
	}

	p.logger.Info("document indexed", "filename", filename, "documentId", docID, "chunks", len(records))
	return &Result{Document: doc, Outcome: Accepted}, nil
}

// IngestAll processes several documents concurrently on the worker pool
// and returns one FileResult per input, in input order.
func (p *Pipeline) IngestAll(ctx context.Context, files []File) []FileResult {
	results := make([]FileResult, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		results[i].Filename = file.Name

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			results[i].Result, results[i].Err = p.Ingest(ctx, file.Data, file.Name)
		})
		if submitErr != nil {
			results[i].Err = submitErr
			wg.Done()
		}
	}
	wg.Wait()

	return results
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
