// Package extract converts raw document bytes into plain text.
//
// Extraction is all-or-nothing: an Extractor either returns the complete
// text of a document or an error wrapping ErrExtraction; it never silently
// truncates. A document with no extractable text (for example image-only
// PDF pages) is an extraction failure, not an empty success.
package extract

import "context"

// Extractor converts raw document bytes into plain text.
// Implementations must be side-effect free.
type Extractor interface {
	// Extract returns the full plain-text content of the document.
	// All failures (corrupted input, password protection, missing text
	// layer) wrap ErrExtraction.
	Extract(ctx context.Context, data []byte) (string, error)
}
