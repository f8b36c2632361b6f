// Package chunker splits extracted document text into overlapping,
// offset-tracked segments suitable for indexing. Splitting is a pure
// function of the text and the chunker parameters: the same input always
// produces the same chunks.
package chunker

import (
	"unicode"

	"github.com/scribeworks/paperdex/core"
)

const (
	// DefaultSize is the default target chunk size in runes.
	DefaultSize = 1000

	// DefaultOverlap is the default overlap between adjacent chunks in runes.
	DefaultOverlap = 200
)

// Chunker produces overlapping chunks of a fixed target size, snapping
// cut points backward to sentence or word boundaries where possible.
type Chunker struct {
	size     int
	overlap  int
	lookback int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithLookback bounds how far the boundary snap may move a cut point
// backward from the naive size-aligned position. Defaults to the overlap,
// or a tenth of the chunk size when the overlap is zero.
func WithLookback(lookback int) Option {
	return func(c *Chunker) {
		c.lookback = lookback
	}
}

// New creates a Chunker with the given target size and overlap, both in
// runes. Returns ErrInvalidSize if size is not positive and ErrInvalidOverlap
// unless 0 <= overlap < size.
func New(size, overlap int, opts ...Option) (*Chunker, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if overlap < 0 || overlap >= size {
		return nil, ErrInvalidOverlap
	}

	c := &Chunker{
		size:    size,
		overlap: overlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.lookback <= 0 {
		c.lookback = overlap
		if c.lookback == 0 {
			c.lookback = size / 10
		}
	}

	return c, nil
}

// Split chunks the text. Empty text yields no chunks; text shorter than
// the chunk size yields exactly one chunk covering the whole text.
//
// The chunks' [Start, End) ranges cover the text without gaps, and each
// chunk after the first begins at or before the previous chunk's end.
func (c *Chunker) Split(text string) []core.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []core.Chunk
	start := 0

	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.snap(runes, start, end)
		}

		chunks = append(chunks, core.Chunk{
			Seq:   len(chunks),
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})

		if end >= len(runes) {
			break
		}

		next := end - c.overlap
		if next <= start {
			// Boundary snapping shrank the window enough that the
			// stride would stall. Forcing a minimal advance keeps
			// coverage intact.
			next = start + 1
		}
		start = next
	}

	return chunks
}

// snap searches backward from the naive cut point for the nearest sentence
// end, then for the nearest word boundary, within the lookback window.
// Falls back to the naive cut when neither is found.
func (c *Chunker) snap(runes []rune, start, naiveEnd int) int {
	limit := naiveEnd - c.lookback
	if limit <= start+1 {
		limit = start + 1
	}

	for i := naiveEnd - 1; i >= limit; i-- {
		if isSentenceEnd(runes[i]) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
	}

	for i := naiveEnd - 1; i >= limit; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}

	return naiveEnd
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	}
	return false
}
