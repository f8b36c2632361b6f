package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
)

// PDFExtractor extracts the text layer from PDF documents.
type PDFExtractor struct {
	password string
}

var _ Extractor = (*PDFExtractor)(nil)

// PDFOption configures a PDFExtractor.
type PDFOption func(*PDFExtractor)

// WithPassword sets the password used to open protected documents.
// Without it, password-protected input fails extraction.
func WithPassword(password string) PDFOption {
	return func(e *PDFExtractor) {
		e.password = password
	}
}

// NewPDFExtractor creates a PDF text extractor.
func NewPDFExtractor(opts ...PDFOption) *PDFExtractor {
	e := &PDFExtractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the concatenated text of all pages.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	var loaderOpts []documentloaders.PDFOptions
	if e.password != "" {
		loaderOpts = append(loaderOpts, documentloaders.WithPassword(e.password))
	}

	loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)), loaderOpts...)
	pages, err := loader.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	var sb strings.Builder
	for _, page := range pages {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(page.PageContent)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: %w", ErrExtraction, ErrNoText)
	}
	return text, nil
}
