// Package extract turns uploaded resumes (PDF, DOCX, plain text) into
// plain text, falling back to OCR for PDF pages without a text layer.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"resumabuilder/internal/metrics"
)

var (
	// ErrUnextractable means the document produced no text at all, not
	// even through OCR.
	ErrUnextractable = errors.New("no text could be extracted from the document")
	// ErrUnsupportedFormat is returned for files that are not PDF, DOCX or
	// plain text.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// PageRasterizer renders one PDF page (1-based) to a PNG image.
type PageRasterizer interface {
	RasterizePage(ctx context.Context, pdf []byte, page int, dpi int) ([]byte, error)
}

// OCR recognizes text in an image.
type OCR interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// OCRDPI is the fixed rasterization resolution for OCR, twice the PDF
// default of 72.
const OCRDPI = 144

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Extractor struct {
	rasterizer PageRasterizer
	ocr        OCR
	open       func([]byte) (textLayer, error)
}

// NewExtractor builds an extractor. rasterizer and ocr may be nil, in which
// case image-only PDF pages contribute no text.
func NewExtractor(rasterizer PageRasterizer, ocr OCR) *Extractor {
	return &Extractor{rasterizer: rasterizer, ocr: ocr, open: openLedongthuc}
}

// Extract returns all text in the file. Every PDF page is processed before
// it returns.
func (e *Extractor) Extract(ctx context.Context, f File) (string, error) {
	format, err := DetectFormat(f)
	if err != nil {
		return "", err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = e.extractPDF(ctx, f.Data)
	case FormatDOCX:
		text, err = extractDOCX(f.Data)
	case FormatText:
		text = string(f.Data)
	}
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrUnextractable
	}
	return text, nil
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	var (
		parts   []string
		lastErr error
	)
	for page, err := range e.OpenPDF(data).Pages(ctx) {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			if page.Number == 0 {
				// the document itself could not be opened
				return "", fmt.Errorf("%w: %v", ErrUnextractable, err)
			}
			slog.Warn("extract: page skipped", "page", page.Number, "error", err)
			lastErr = err
			continue
		}
		metrics.ExtractedPages.WithLabelValues(string(page.Source)).Inc()
		if page.Text != "" {
			parts = append(parts, page.Text)
		}
	}
	if len(parts) == 0 && lastErr != nil {
		return "", fmt.Errorf("%w: %v", ErrUnextractable, lastErr)
	}
	return strings.Join(parts, "\n\n"), nil
}

// DetectFormat sniffs the file by magic bytes first, then by extension and
// declared content type.
func DetectFormat(f File) (Format, error) {
	switch {
	case bytes.HasPrefix(f.Data, []byte("%PDF-")):
		return FormatPDF, nil
	case bytes.HasPrefix(f.Data, []byte("PK\x03\x04")) && isDOCXName(f):
		return FormatDOCX, nil
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	ct := strings.ToLower(f.ContentType)
	switch {
	case ext == ".pdf" || ct == "application/pdf":
		return FormatPDF, nil
	case isDOCXName(f):
		return FormatDOCX, nil
	case ext == ".txt" || ext == ".md" || strings.HasPrefix(ct, "text/"):
		return FormatText, nil
	case looksLikeText(f.Data):
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Name)
}

// looksLikeText accepts any other upload that is valid UTF-8 without NUL
// bytes, such as .csv, .rtf or an untyped octet stream.
func looksLikeText(data []byte) bool {
	return len(data) > 0 && utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}

func isDOCXName(f File) bool {
	return strings.EqualFold(filepath.Ext(f.Name), ".docx") ||
		f.ContentType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
