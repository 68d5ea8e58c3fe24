package extract

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/ledongthuc/pdf"
)

type TextSource string

const (
	SourceTextLayer TextSource = "text_layer"
	SourceOCR       TextSource = "ocr"
	SourceNone      TextSource = "none"
)

// PageText is the text of one page and where it came from.
type PageText struct {
	Number int
	Text   string
	Source TextSource
}

// textLayer gives access to the embedded text of a PDF.
type textLayer interface {
	NumPage() int
	PageText(n int) (string, error)
}

// Document is a PDF ready to be read page by page.
type Document struct {
	data       []byte
	open       func([]byte) (textLayer, error)
	rasterizer PageRasterizer
	ocr        OCR
}

func (e *Extractor) OpenPDF(data []byte) *Document {
	return &Document{data: data, open: e.open, rasterizer: e.rasterizer, ocr: e.ocr}
}

// Pages yields the text of each page in order. Nothing is read until the
// sequence is ranged over, and every range starts again from page one.
// A failure to open the document is yielded once with Number 0.
func (d *Document) Pages(ctx context.Context) iter.Seq2[PageText, error] {
	return func(yield func(PageText, error) bool) {
		layer, err := d.open(d.data)
		if err != nil {
			yield(PageText{}, err)
			return
		}
		for n := 1; n <= layer.NumPage(); n++ {
			if err := ctx.Err(); err != nil {
				yield(PageText{Number: n}, err)
				return
			}
			if !yield(d.page(ctx, layer, n)) {
				return
			}
		}
	}
}

func (d *Document) page(ctx context.Context, layer textLayer, n int) (PageText, error) {
	pt := PageText{Number: n, Source: SourceTextLayer}
	text, err := layer.PageText(n)
	if err == nil {
		pt.Text = collapseSpaces(text)
	}
	if pt.Text != "" {
		return pt, nil
	}

	if d.rasterizer == nil || d.ocr == nil {
		pt.Source = SourceNone
		return pt, nil
	}
	img, rerr := d.rasterizer.RasterizePage(ctx, d.data, n, OCRDPI)
	if rerr != nil {
		return pt, fmt.Errorf("rasterize page %d: %w", n, rerr)
	}
	ocrText, oerr := d.ocr.Recognize(ctx, img)
	if oerr != nil {
		return pt, fmt.Errorf("ocr page %d: %w", n, oerr)
	}
	pt.Text = collapseSpaces(ocrText)
	pt.Source = SourceOCR
	return pt, nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type ledongthucLayer struct {
	r *pdf.Reader
}

func openLedongthuc(data []byte) (textLayer, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	return ledongthucLayer{r: r}, nil
}

func (l ledongthucLayer) NumPage() int { return l.r.NumPage() }

// PageText reads one page's text layer. The parser panics on some
// malformed content streams; that is reported as an error for the page.
func (l ledongthucLayer) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: malformed content: %v", n, r)
		}
	}()
	p := l.r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
