package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/scribeworks/paperdex/core"
	"github.com/scribeworks/paperdex/storage"
)

// conditionalInsertRetries bounds the commit-conflict retry loop. Each
// retry re-reads the key, so the loop terminates as soon as a competing
// insert has landed.
const conditionalInsertRetries = 8

// FingerprintIndex implements storage.FingerprintIndex for BadgerDB.
type FingerprintIndex struct {
	backend *Backend
}

var _ storage.FingerprintIndex = (*FingerprintIndex)(nil)

// NewFingerprintIndex creates a new FingerprintIndex.
func NewFingerprintIndex(backend *Backend) (storage.FingerprintIndex, error) {
	return &FingerprintIndex{
		backend: backend,
	}, nil
}

// Close releases resources. FingerprintIndex has no resources of its own.
func (f *FingerprintIndex) Close() error {
	return nil
}

// errExists signals an observed key inside the insert transaction.
var errExists = errors.New("fingerprint already present")

// ConditionalInsert registers the fingerprint if absent. The read and the
// write share one transaction; badger's conflict detection guarantees that
// of two racing inserts exactly one commits, and the loser re-reads the
// now-present key on retry and reports AlreadyExists.
func (f *FingerprintIndex) ConditionalInsert(ctx context.Context, fp core.Fingerprint, docID core.ID) (storage.InsertOutcome, error) {
	if f.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	key := makeFingerprintKey(fp)

	for attempt := 0; attempt < conditionalInsertRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		err := f.backend.WithTx(func(tx *badger.Txn) error {
			_, err := tx.Get(key)
			if err == nil {
				return errExists
			}
			if err != badger.ErrKeyNotFound {
				return err
			}
			if err := tx.Set(key, storage.MarshalID(docID)); err != nil {
				return err
			}
			return tx.Commit()
		}, true)

		switch {
		case err == nil:
			return storage.Inserted, nil
		case errors.Is(err, errExists):
			return storage.AlreadyExists, nil
		case errors.Is(err, badger.ErrConflict):
			continue
		default:
			return 0, err
		}
	}

	return 0, badger.ErrConflict
}

// Lookup returns the document ID registered for the fingerprint.
func (f *FingerprintIndex) Lookup(ctx context.Context, fp core.Fingerprint) (core.ID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if f.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	var docID core.ID
	err := f.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeFingerprintKey(fp))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			docID, err = storage.UnmarshalID(val)
			return err
		})
	}, false)

	return docID, err
}

// Unregister removes a fingerprint entry. Removing an absent entry is a no-op.
func (f *FingerprintIndex) Unregister(ctx context.Context, fp core.Fingerprint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return f.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeFingerprintKey(fp)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
