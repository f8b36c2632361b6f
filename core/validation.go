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


package core

import (
	"fmt"
	"time"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - UploadedAt must not be in the future
//   - ChunkCount must not be negative
//
// NOT validated:
//   - ID (0 is a legal derived value, however unlikely)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilename)
	}

	if !IsValidTimestamp(doc.UploadedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidTimestamp)
	}

	if doc.ChunkCount < 0 {
		return fmt.Errorf("%w: chunk count cannot be negative", ErrInvalidDocument)
	}

	return nil
}

// ValidateChunkRecord validates a ChunkRecord according to domain rules.
//
// Validation rules:
//   - Filename and Content must not be empty
//   - Seq must not be negative
//   - End must be greater than Start
//   - UploadedAt must not be in the future
func ValidateChunkRecord(record *ChunkRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidChunkRecord)
	}

	if record.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptyFilename)
	}

	if record.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptyContent)
	}

	if record.Seq < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrNegativeSequence)
	}

	if record.End <= record.Start {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrInvalidOffsets)
	}

	if !IsValidTimestamp(record.UploadedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
