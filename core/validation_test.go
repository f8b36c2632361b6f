package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDocument(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)
	fp := FingerprintOf([]byte("some document"))

	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				Id:          fp.ID(),
				Filename:    "report.pdf",
				Fingerprint: fp,
				UploadedAt:  validTime,
				ChunkCount:  3,
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "empty filename",
			doc: &Document{
				Id:          fp.ID(),
				Fingerprint: fp,
				UploadedAt:  validTime,
			},
			wantErr: ErrEmptyFilename,
		},
		{
			name: "future timestamp",
			doc: &Document{
				Id:          fp.ID(),
				Filename:    "report.pdf",
				Fingerprint: fp,
				UploadedAt:  futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunkRecord(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	fp := FingerprintOf([]byte("some document"))

	valid := func() *ChunkRecord {
		return &ChunkRecord{
			DocumentId:  fp.ID(),
			Filename:    "report.pdf",
			Seq:         0,
			Start:       0,
			End:         12,
			Content:     "chunk content",
			Fingerprint: fp,
			UploadedAt:  validTime,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ChunkRecord)
		wantErr error
	}{
		{
			name:    "valid record",
			mutate:  func(r *ChunkRecord) {},
			wantErr: nil,
		},
		{
			name:    "empty filename",
			mutate:  func(r *ChunkRecord) { r.Filename = "" },
			wantErr: ErrEmptyFilename,
		},
		{
			name:    "empty content",
			mutate:  func(r *ChunkRecord) { r.Content = "" },
			wantErr: ErrEmptyContent,
		},
		{
			name:    "negative sequence",
			mutate:  func(r *ChunkRecord) { r.Seq = -1 },
			wantErr: ErrNegativeSequence,
		},
		{
			name:    "end before start",
			mutate:  func(r *ChunkRecord) { r.Start = 10; r.End = 5 },
			wantErr: ErrInvalidOffsets,
		},
		{
			name:    "zero-width offsets",
			mutate:  func(r *ChunkRecord) { r.Start = 7; r.End = 7 },
			wantErr: ErrInvalidOffsets,
		},
		{
			name:    "future timestamp",
			mutate:  func(r *ChunkRecord) { r.UploadedAt = time.Now().Add(time.Hour) },
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid()
			tt.mutate(record)

			err := ValidateChunkRecord(record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunkRecord() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunkRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("nil record", func(t *testing.T) {
		if err := ValidateChunkRecord(nil); !errors.Is(err, ErrInvalidChunkRecord) {
			t.Errorf("ValidateChunkRecord(nil) error = %v, want %v", err, ErrInvalidChunkRecord)
		}
	})
}
