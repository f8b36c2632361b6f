package core

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Document IDs are derived from the content fingerprint, so byte-identical
// uploads always map to the same ID.
type ID uint64

// FingerprintSize is the length in bytes of a content fingerprint.
const FingerprintSize = 32

// Fingerprint is a BLAKE2b-256 digest of a document's raw bytes.
// It is computed over the original upload, not the extracted text, so
// byte-identical re-uploads are always detected.
type Fingerprint [FingerprintSize]byte

// FingerprintOf computes the fingerprint of raw document bytes.
func FingerprintOf(data []byte) Fingerprint {
	h, _ := blake2b.New(FingerprintSize, nil)
	h.Write(data)
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

// Hex returns the lowercase hex encoding of the fingerprint.
func (fp Fingerprint) Hex() string {
	return hex.EncodeToString(fp[:])
}

// ID derives a document ID from the fingerprint.
func (fp Fingerprint) ID() ID {
	return ID(binary.LittleEndian.Uint64(fp[:8]))
}

// Document represents one logical uploaded file. Immutable once created;
// every chunk derived from it references the document by ID.
type Document struct {
	Id          ID
	Filename    string
	Fingerprint Fingerprint
	UploadedAt  time.Time // When the document was ingested
	ChunkCount  int       // Number of chunks produced at ingestion time
}

// Chunk is a contiguous, possibly-overlapping slice of a document's
// extracted text. Start and End are rune offsets into the extracted
// text; the range is [Start, End).
type Chunk struct {
	Seq   int // 0-based position within the owning document
	Start int
	End   int
	Text  string
}

// ChunkRecord is the unit of indexing and search: one chunk together with
// the provenance metadata of its owning document.
type ChunkRecord struct {
	DocumentId  ID
	Filename    string
	Seq         int
	Start       int
	End         int
	Content     string
	Fingerprint Fingerprint
	UploadedAt  time.Time
}

// SearchResult is an ephemeral, per-query ranked hit.
type SearchResult struct {
	Record    *ChunkRecord
	Score     float64  // Non-negative, higher is more relevant
	Fragments []string // Highlighted fragments around matched terms
}
