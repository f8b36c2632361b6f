package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// PlainTextExtractor treats the raw bytes as UTF-8 text.
type PlainTextExtractor struct{}

var _ Extractor = (*PlainTextExtractor)(nil)

// NewPlainTextExtractor creates a plain text extractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// Extract validates the bytes as UTF-8 and returns them unchanged apart
// from surrounding whitespace.
func (e *PlainTextExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: input is not valid UTF-8", ErrExtraction)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: %w", ErrExtraction, ErrNoText)
	}
	return text, nil
}
