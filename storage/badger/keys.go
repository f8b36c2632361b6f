package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/scribeworks/paperdex/core"
)

// Key prefixes for different data types
const (
	documentPrefix    = "docrec"
	chunkRecordPrefix = "chkrec"
	fingerprintPrefix = "fpridx"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// makeChunkKey generates a composite key for a chunk record.
// Format: prefix:documentID:seq
func makeChunkKey(docID core.ID, seq int) []byte {
	prefix := chunkRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for document ID + 8 bytes for seq
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort keeps a document's
	// chunks contiguous and in sequence order
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(seq))
	return buf
}

// makePartialChunkKey generates a partial key covering all chunks of a document.
// Format: prefix:documentID
func makePartialChunkKey(docID core.ID) []byte {
	prefix := chunkRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makeFingerprintKey generates a key for a fingerprint index entry.
func makeFingerprintKey(fp core.Fingerprint) []byte {
	prefix := fingerprintPrefix + ":"
	buf := make([]byte, len(prefix)+core.FingerprintSize)
	offset := copy(buf, []byte(prefix))
	copy(buf[offset:], fp[:])
	return buf
}
