package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/scribeworks/paperdex/chunker"
	"github.com/scribeworks/paperdex/core"
	"github.com/scribeworks/paperdex/storage"
	"github.com/scribeworks/paperdex/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, storage.ChunkStore, storage.FingerprintIndex) {
	t.Helper()

	chunks, fingerprints, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		fingerprints.Close()
		chunks.Close()
		backend.Close()
	})

	pipeline, err := NewPipeline(chunks, fingerprints, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, chunks, fingerprints
}

func TestNewPipeline(t *testing.T) {
	chunks, fingerprints, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer func() {
		fingerprints.Close()
		chunks.Close()
		backend.Close()
	}()

	t.Run("valid configuration", func(t *testing.T) {
		pipeline, err := NewPipeline(chunks, fingerprints)
		require.NoError(t, err)
		assert.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("nil chunk store", func(t *testing.T) {
		_, err := NewPipeline(nil, fingerprints)
		assert.Equal(t, ErrChunkStoreRequired, err)
	})

	t.Run("nil fingerprint index", func(t *testing.T) {
		_, err := NewPipeline(chunks, nil)
		assert.Equal(t, ErrFingerprintIndexRequired, err)
	})
}

func TestIngest_PlainText(t *testing.T) {
	pipeline, chunks, _ := newTestPipeline(t)

	ctx := context.Background()
	result, err := pipeline.Ingest(ctx, []byte("A short note about the garden."), "note.txt")
	require.NoError(t, err)

	assert.Equal(t, Accepted, result.Outcome)
	require.NotNil(t, result.Document)
	assert.Equal(t, "note.txt", result.Document.Filename)
	assert.Equal(t, 1, result.Document.ChunkCount)
	assert.NotZero(t, result.Document.Id)

	stats, err := chunks.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDocuments)
	assert.Equal(t, 1, stats.TotalChunks)
}

func TestIngest_InputValidation(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)
	ctx := context.Background()

	t.Run("empty filename", func(t *testing.T) {
		_, err := pipeline.Ingest(ctx, []byte("data"), "")
		assert.ErrorIs(t, err, ErrEmptyFilename)
	})

	t.Run("empty data", func(t *testing.T) {
		_, err := pipeline.Ingest(ctx, nil, "empty.txt")
		assert.ErrorIs(t, err, ErrEmptyDocument)
	})
}

func TestIngest_Duplicate(t *testing.T) {
	pipeline, chunks, _ := newTestPipeline(t)
	ctx := context.Background()

	data := []byte("Identical bytes every time.")

	first, err := pipeline.Ingest(ctx, data, "original.txt")
	require.NoError(t, err)
	assert.Equal(t, Accepted, first.Outcome)

	// Same bytes under a different name are still a duplicate.
	second, err := pipeline.Ingest(ctx, data, "copy.txt")
	require.NoError(t, err)
	assert.Equal(t, Duplicate, second.Outcome)
	assert.Equal(t, first.Document.Id, second.Document.Id)

	stats, err := chunks.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDocuments)
}

func TestIngest_ConcurrentDuplicates(t *testing.T) {
	pipeline, chunks, _ := newTestPipeline(t, WithPoolSize(8))
	ctx := context.Background()

	data := []byte("Contended document body, submitted by many workers at once.")

	const workers = 12
	results := make([]*Result, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], errs[n] = pipeline.Ingest(ctx, data, fmt.Sprintf("copy-%d.txt", n))
		}(i)
	}
	wg.Wait()

	accepted := 0
	duplicate := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		switch results[i].Outcome {
		case Accepted:
			accepted++
		case Duplicate:
			duplicate++
		}
	}

	assert.Equal(t, 1, accepted)
	assert.Equal(t, workers-1, duplicate)

	stats, err := chunks.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDocuments)
}

func TestIngest_UnsupportedFormat(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	_, err := pipeline.Ingest(context.Background(), []byte("binary"), "image.png")

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, StageExtraction, docErr.Stage)
	assert.Equal(t, "image.png", docErr.Filename)
}

func TestIngest_ExtractionFailure(t *testing.T) {
	pipeline, chunks, _ := newTestPipeline(t)

	// Garbage bytes with a .pdf extension fail in the extractor.
	_, err := pipeline.Ingest(context.Background(), []byte("not a pdf at all"), "broken.pdf")

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, StageExtraction, docErr.Stage)

	// Nothing was written.
	stats, err := chunks.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalDocuments)
	assert.Equal(t, 0, stats.TotalChunks)
}

// failingChunkStore rejects every write so rollback behavior can be observed.
type failingChunkStore struct {
	storage.ChunkStore
	putErr error
}

func (f *failingChunkStore) PutChunks(ctx context.Context, doc *core.Document, records []*core.ChunkRecord) error {
	return f.putErr
}

func TestIngest_IndexingFailureRollsBackFingerprint(t *testing.T) {
	chunks, fingerprints, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer func() {
		fingerprints.Close()
		chunks.Close()
		backend.Close()
	}()

	writeErr := errors.New("disk full")
	failing := &failingChunkStore{ChunkStore: chunks, putErr: writeErr}

	pipeline, err := NewPipeline(failing, fingerprints)
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	data := []byte("Document whose chunk write fails.")

	_, err = pipeline.Ingest(ctx, data, "doomed.txt")

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, StageIndexing, docErr.Stage)
	assert.ErrorIs(t, err, writeErr)

	// The gate was rolled back, so a retry against a healthy store is
	// Accepted rather than misreported as Duplicate.
	retryPipeline, err := NewPipeline(chunks, fingerprints)
	require.NoError(t, err)
	defer retryPipeline.Release()

	result, err := retryPipeline.Ingest(ctx, data, "doomed.txt")
	require.NoError(t, err)
	assert.Equal(t, Accepted, result.Outcome)
}

func TestIngest_CustomChunker(t *testing.T) {
	small, err := chunker.New(20, 5)
	require.NoError(t, err)

	pipeline, chunks, _ := newTestPipeline(t, WithChunker(small))
	ctx := context.Background()

	result, err := pipeline.Ingest(ctx, []byte("The quick brown fox. The fox jumps over the lazy dog."), "fox.txt")
	require.NoError(t, err)
	assert.Greater(t, result.Document.ChunkCount, 1)

	stats, err := chunks.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Document.ChunkCount, stats.TotalChunks)
}

func TestIngestAll(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t, WithPoolSize(4))
	ctx := context.Background()

	files := []File{
		{Name: "one.txt", Data: []byte("First document body.")},
		{Name: "two.txt", Data: []byte("Second document body.")},
		{Name: "dup.txt", Data: []byte("First document body.")},
		{Name: "bad.png", Data: []byte("unsupported")},
	}

	results := pipeline.IngestAll(ctx, files)
	require.Len(t, results, len(files))

	// Results come back in input order.
	for i, fr := range results {
		assert.Equal(t, files[i].Name, fr.Filename)
	}

	assert.NoError(t, results[0].Err)
	assert.Equal(t, Accepted, results[0].Result.Outcome)

	assert.NoError(t, results[1].Err)
	assert.Equal(t, Accepted, results[1].Result.Outcome)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, Duplicate, results[2].Result.Outcome)

	var docErr *DocumentError
	require.ErrorAs(t, results[3].Err, &docErr)
	assert.Equal(t, StageExtraction, docErr.Stage)
}

func TestDocumentError_Message(t *testing.T) {
	inner := errors.New("boom")
	err := &DocumentError{Filename: "report.pdf", Stage: StageIndexing, Err: inner}

	assert.Equal(t, `indexing of "report.pdf" failed: boom`, err.Error())
	assert.ErrorIs(t, err, inner)
}
