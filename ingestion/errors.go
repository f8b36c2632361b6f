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


package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrChunkStoreRequired is returned when a chunk store is not provided.
	ErrChunkStoreRequired = errors.New("chunk store required")

	// ErrFingerprintIndexRequired is returned when a fingerprint index is not provided.
	ErrFingerprintIndexRequired = errors.New("fingerprint index required")

	// ErrEmptyFilename is returned when a document is submitted without a name.
	ErrEmptyFilename = errors.New("filename required")

	// ErrEmptyDocument is returned when a document is submitted with no bytes.
	ErrEmptyDocument = errors.New("document is empty")
)

// Stage names the pipeline step a document failed in.
type Stage string

const (
	// StageExtraction covers text extraction from the raw bytes.
	StageExtraction Stage = "extraction"
	// StageIndexing covers writing the chunk batch to storage.
	StageIndexing Stage = "indexing"
)

// DocumentError reports an ingestion failure with the offending document
// and the stage that failed. Extraction failures are not retryable;
// indexing failures leave no partial state, so the caller may retry the
// whole document.
type DocumentError struct {
	Filename string
	Stage    Stage
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s of %q failed: %v", e.Stage, e.Filename, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
