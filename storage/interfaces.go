package storage

import (
	"context"

	"github.com/scribeworks/paperdex/core"
)

// InsertOutcome is the result of a conditional insert.
type InsertOutcome int

const (
	// Inserted means the key was absent and has been written.
	Inserted InsertOutcome = iota + 1
	// AlreadyExists means the key was present; nothing was written.
	AlreadyExists
)

// HealthStatus describes the availability of a storage backend.
type HealthStatus int

const (
	// Healthy means the backend is fully operational.
	Healthy HealthStatus = iota + 1
	// Degraded means the backend responds but reads are unreliable.
	Degraded
	// Unavailable means the backend cannot serve requests.
	Unavailable
)

// Stats is a point-in-time summary of the index contents.
type Stats struct {
	TotalDocuments int
	TotalChunks    int
	IndexSizeBytes int64
}

// ChunkStore persists chunk records and executes relevance-scored queries
// over them.
type ChunkStore interface {
	// PutChunks writes a document and all of its chunk records in one
	// atomic batch. Either every record becomes searchable or none do.
	// Records are validated before any write; repeated writes of the
	// same document overwrite in place, keyed by document ID and chunk
	// sequence, so retries are safe.
	PutChunks(ctx context.Context, doc *core.Document, records []*core.ChunkRecord) error

	// Query executes a boosted multi-clause query and returns up to
	// q.Limit scored records, ordered by descending score. Only records
	// matching at least one clause are returned.
	Query(ctx context.Context, q *Query) ([]*ScoredRecord, error)

	// Stats reports document and chunk counts and the on-disk index size.
	Stats(ctx context.Context) (*Stats, error)

	// Health probes the backend so callers can fail fast instead of
	// timing out per operation when the backend is known down.
	Health(ctx context.Context) HealthStatus

	// Close releases resources held by the store.
	Close() error
}

// FingerprintIndex maps content fingerprints to document IDs. It exists
// solely to reject duplicate ingestion.
type FingerprintIndex interface {
	// ConditionalInsert atomically registers a fingerprint. Among
	// concurrent calls with the same fingerprint, exactly one returns
	// Inserted; all others return AlreadyExists. This must be a single
	// test-and-set against the backing store, never a read-then-write
	// pair.
	ConditionalInsert(ctx context.Context, fp core.Fingerprint, docID core.ID) (InsertOutcome, error)

	// Lookup returns the document ID registered for the fingerprint,
	// or ErrNotFound.
	Lookup(ctx context.Context, fp core.Fingerprint) (core.ID, error)

	// Unregister removes a fingerprint entry. It exists only so a failed
	// chunk batch write can be rolled back; a fingerprint whose document
	// was indexed must never be unregistered. Removing an absent entry
	// is not an error.
	Unregister(ctx context.Context, fp core.Fingerprint) error

	// Close releases resources held by the index.
	Close() error
}
