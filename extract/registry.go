package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry maps file extensions to extractors.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]Extractor),
	}
}

// DefaultRegistry creates a registry covering the supported document
// formats: PDF and plain text variants.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPDFExtractor(), ".pdf")

	plain := NewPlainTextExtractor()
	r.Register(plain, ".txt", ".text", ".md", ".log")
	return r
}

// Register associates an extractor with one or more extensions.
// Extensions are matched case-insensitively and must include the dot.
func (r *Registry) Register(e Extractor, exts ...string) {
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// ForFilename returns the extractor registered for the filename's
// extension, or ErrUnsupportedFormat.
func (r *Registry) ForFilename(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return e, nil
}
