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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/scribeworks/paperdex/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalChunkRecord serializes a ChunkRecord to bytes.
func MarshalChunkRecord(record *core.ChunkRecord) []byte {
	size := varint.Uint64.Size(uint64(record.DocumentId)) +
		ord.String.Size(record.Filename) +
		varint.Int.Size(record.Seq) +
		varint.Int.Size(record.Start) +
		varint.Int.Size(record.End) +
		ord.String.Size(record.Content) +
		core.FingerprintSize +
		varint.Int64.Size(record.UploadedAt.UnixMicro())

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(record.DocumentId), buf)
	n += ord.String.Marshal(record.Filename, buf[n:])
	n += varint.Int.Marshal(record.Seq, buf[n:])
	n += varint.Int.Marshal(record.Start, buf[n:])
	n += varint.Int.Marshal(record.End, buf[n:])
	n += ord.String.Marshal(record.Content, buf[n:])
	n += copy(buf[n:], record.Fingerprint[:])
	varint.Int64.Marshal(record.UploadedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalChunkRecord deserializes a ChunkRecord from bytes.
func UnmarshalChunkRecord(data []byte) (*core.ChunkRecord, error) {
	record := &core.ChunkRecord{}

	docID, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	record.DocumentId = core.ID(docID)

	record.Filename, n, err = unmarshalString(data, n)
	if err != nil {
		return nil, err
	}
	record.Seq, n, err = unmarshalInt(data, n)
	if err != nil {
		return nil, err
	}
	record.Start, n, err = unmarshalInt(data, n)
	if err != nil {
		return nil, err
	}
	record.End, n, err = unmarshalInt(data, n)
	if err != nil {
		return nil, err
	}
	record.Content, n, err = unmarshalString(data, n)
	if err != nil {
		return nil, err
	}

	if len(data[n:]) < core.FingerprintSize {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, ErrTruncatedData)
	}
	n += copy(record.Fingerprint[:], data[n:n+core.FingerprintSize])

	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	record.UploadedAt = time.UnixMicro(micros).UTC()

	return record, nil
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	size := varint.Uint64.Size(uint64(doc.Id)) +
		ord.String.Size(doc.Filename) +
		core.FingerprintSize +
		varint.Int64.Size(doc.UploadedAt.UnixMicro()) +
		varint.Int.Size(doc.ChunkCount)

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(doc.Id), buf)
	n += ord.String.Marshal(doc.Filename, buf[n:])
	n += copy(buf[n:], doc.Fingerprint[:])
	n += varint.Int64.Marshal(doc.UploadedAt.UnixMicro(), buf[n:])
	varint.Int.Marshal(doc.ChunkCount, buf[n:])
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc := &core.Document{}

	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	doc.Id = core.ID(id)

	doc.Filename, n, err = unmarshalString(data, n)
	if err != nil {
		return nil, err
	}

	if len(data[n:]) < core.FingerprintSize {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, ErrTruncatedData)
	}
	n += copy(doc.Fingerprint[:], data[n:n+core.FingerprintSize])

	micros, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	doc.UploadedAt = time.UnixMicro(micros).UTC()
	n += m

	doc.ChunkCount, _, err = unmarshalInt(data, n)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func unmarshalString(data []byte, offset int) (string, int, error) {
	v, n, err := ord.String.Unmarshal(data[offset:])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return v, offset + n, nil
}

func unmarshalInt(data []byte, offset int) (int, int, error) {
	v, n, err := varint.Int.Unmarshal(data[offset:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return v, offset + n, nil
}
