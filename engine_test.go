package paperdex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/scribeworks/paperdex/ingestion"
	"github.com/scribeworks/paperdex/search"
	"github.com/scribeworks/paperdex/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	t.Run("create new engine", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "index")
		engine, err := NewEngine(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, engine)
		defer engine.Close()

		assert.NotNil(t, engine.ChunkStore())
		assert.NotNil(t, engine.FingerprintIndex())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("occupied"), 0644)
		require.NoError(t, err)

		engine, err := NewEngine(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, engine)
	})

	t.Run("invalid chunking", func(t *testing.T) {
		_, err := NewMemoryEngine(WithChunking(100, 100))
		assert.Error(t, err)
	})
}

func TestEngine_Close(t *testing.T) {
	engine, err := NewMemoryEngine()
	require.NoError(t, err)

	assert.NoError(t, engine.Close())
}

func TestEngine_IngestAndSearch(t *testing.T) {
	engine, err := NewMemoryEngine()
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()

	result, err := engine.Ingest(ctx, []byte("The telescope resolved the binary star system clearly."), "astronomy.txt")
	require.NoError(t, err)
	assert.Equal(t, ingestion.Accepted, result.Outcome)

	result, err = engine.Ingest(ctx, []byte("Recipes for sourdough depend on starter hydration."), "baking.txt")
	require.NoError(t, err)
	assert.Equal(t, ingestion.Accepted, result.Outcome)

	results, err := engine.Search(ctx, "binary star", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "astronomy.txt", results[0].Record.Filename)
	require.NotEmpty(t, results[0].Fragments)
	assert.Contains(t, results[0].Fragments[0], "<em>binary</em>")

	stats, err := engine.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 2, stats.TotalChunks)
}

func TestEngine_IngestAll(t *testing.T) {
	engine, err := NewMemoryEngine(WithPoolSize(4))
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()

	files := []ingestion.File{
		{Name: "a.txt", Data: []byte("Alpha document content.")},
		{Name: "b.txt", Data: []byte("Beta document content.")},
		{Name: "a-copy.txt", Data: []byte("Alpha document content.")},
	}

	results := engine.IngestAll(ctx, files)
	require.Len(t, results, 3)

	assert.Equal(t, ingestion.Accepted, results[0].Result.Outcome)
	assert.Equal(t, ingestion.Accepted, results[1].Result.Outcome)
	assert.Equal(t, ingestion.Duplicate, results[2].Result.Outcome)
}

func TestEngine_Persistence(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "index")
	ctx := context.Background()

	engine, err := NewEngine(tmpDir)
	require.NoError(t, err)

	_, err = engine.Ingest(ctx, []byte("Durable content survives restarts."), "durable.txt")
	require.NoError(t, err)
	require.NoError(t, engine.Close())

	reopened, err := NewEngine(tmpDir)
	require.NoError(t, err)
	defer reopened.Close()

	results, err := reopened.Search(ctx, "durable", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "durable.txt", results[0].Record.Filename)
}

func TestEngine_SearchOptions(t *testing.T) {
	engine, err := NewMemoryEngine(WithSearchOptions(search.WithMaxLimit(5)))
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.Search(context.Background(), "query", 6)
	assert.ErrorIs(t, err, search.ErrInvalidQuery)
}

func TestEngine_Health(t *testing.T) {
	engine, err := NewMemoryEngine()
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, storage.Healthy, engine.Health(ctx))

	require.NoError(t, engine.Close())
	assert.Equal(t, storage.Unavailable, engine.Health(ctx))
}
