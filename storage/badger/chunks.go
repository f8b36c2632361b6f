package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/scribeworks/paperdex/core"
	"github.com/scribeworks/paperdex/storage"
)

// ChunkStore implements storage.ChunkStore for BadgerDB.
type ChunkStore struct {
	backend *Backend
}

var _ storage.ChunkStore = (*ChunkStore)(nil)

// NewChunkStore creates a new ChunkStore.
func NewChunkStore(backend *Backend) (storage.ChunkStore, error) {
	return &ChunkStore{
		backend: backend,
	}, nil
}

// Close releases resources. ChunkStore has no resources of its own.
func (s *ChunkStore) Close() error {
	return nil
}

// PutChunks writes a document and all of its chunk records in one
// transaction. Validation happens before any write, so a bad record never
// leaves a partial document behind; a transaction that grows past badger's
// limits is rejected whole with ErrBatchTooLarge.
func (s *ChunkStore) PutChunks(ctx context.Context, doc *core.Document, records []*core.ChunkRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	if err := core.ValidateDocument(doc); err != nil {
		return err
	}
	for _, record := range records {
		if err := core.ValidateChunkRecord(record); err != nil {
			return err
		}
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.Id)
		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}

		for _, record := range records {
			chunkKey := makeChunkKey(record.DocumentId, record.Seq)
			if err := tx.Set(chunkKey, storage.MarshalChunkRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if errors.Is(err, badger.ErrTxnTooBig) {
		return fmt.Errorf("%w: document %d with %d chunks", storage.ErrBatchTooLarge, doc.Id, len(records))
	}
	return err
}

// Stats reports document and chunk counts and the on-disk index size.
func (s *ChunkStore) Stats(ctx context.Context) (*storage.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	stats := &storage.Stats{
		IndexSizeBytes: s.backend.DiskSize(),
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		stats.TotalDocuments = countPrefix(tx, []byte(documentPrefix+":"))
		stats.TotalChunks = countPrefix(tx, []byte(chunkRecordPrefix+":"))
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Health probes the backend with a cheap read transaction.
func (s *ChunkStore) Health(ctx context.Context) storage.HealthStatus {
	if s.backend.IsClosed() {
		return storage.Unavailable
	}
	if err := ctx.Err(); err != nil {
		return storage.Unavailable
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeDocumentKey(0))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	}, false)
	if err != nil {
		return storage.Degraded
	}
	return storage.Healthy
}

// countPrefix counts keys under a prefix without reading values.
func countPrefix(tx *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	count := 0
	for iter.Rewind(); iter.Valid(); iter.Next() {
		count++
	}
	return count
}
