package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLayer struct {
	pages []string
	errs  map[int]error
	opens *int
}

func (f fakeLayer) NumPage() int { return len(f.pages) }

func (f fakeLayer) PageText(n int) (string, error) {
	if err := f.errs[n]; err != nil {
		return "", err
	}
	return f.pages[n-1], nil
}

type fakeRasterizer struct {
	calls []int
	err   error
}

func (f *fakeRasterizer) RasterizePage(_ context.Context, _ []byte, page int, dpi int) ([]byte, error) {
	f.calls = append(f.calls, page)
	if f.err != nil {
		return nil, f.err
	}
	return []byte{byte(page), byte(dpi)}, nil
}

type fakeOCR struct {
	text map[int]string
}

func (f fakeOCR) Recognize(_ context.Context, img []byte) (string, error) {
	return f.text[int(img[0])], nil
}

func newTestExtractor(layer fakeLayer, r PageRasterizer, o OCR) *Extractor {
	e := NewExtractor(r, o)
	e.open = func([]byte) (textLayer, error) {
		if layer.opens != nil {
			*layer.opens++
		}
		return layer, nil
	}
	return e
}

var pdfBytes = []byte("%PDF-1.7 fake")

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	layer := fakeLayer{pages: []string{"Page one  text", "   ", "Page three"}}
	r := &fakeRasterizer{}
	o := fakeOCR{text: map[int]string{2: "scanned\n page  two"}}
	e := newTestExtractor(layer, r, o)

	text, err := e.Extract(context.Background(), File{Name: "cv.pdf", Data: pdfBytes})
	require.NoError(t, err)
	assert.Equal(t, "Page one text\n\nscanned page two\n\nPage three", text)
	assert.Equal(t, []int{2}, r.calls)
}

func TestPagesSources(t *testing.T) {
	layer := fakeLayer{pages: []string{"text", ""}}
	e := newTestExtractor(layer, &fakeRasterizer{}, fakeOCR{text: map[int]string{2: "ocr"}})

	var got []PageText
	for p, err := range e.OpenPDF(pdfBytes).Pages(context.Background()) {
		require.NoError(t, err)
		got = append(got, p)
	}
	assert.Equal(t, []PageText{
		{Number: 1, Text: "text", Source: SourceTextLayer},
		{Number: 2, Text: "ocr", Source: SourceOCR},
	}, got)
}

func TestPagesRestartable(t *testing.T) {
	opens := 0
	layer := fakeLayer{pages: []string{"a", "b", "c"}, opens: &opens}
	e := newTestExtractor(layer, nil, nil)
	doc := e.OpenPDF(pdfBytes)
	seq := doc.Pages(context.Background())

	assert.Equal(t, 0, opens)

	for p := range seq {
		if p.Number == 2 {
			break
		}
	}
	var numbers []int
	for p := range seq {
		numbers = append(numbers, p.Number)
	}
	assert.Equal(t, []int{1, 2, 3}, numbers)
	assert.Equal(t, 2, opens)
}

func TestExtractErrors(t *testing.T) {
	testCases := []struct {
		name    string
		layer   fakeLayer
		r       PageRasterizer
		o       OCR
		file    File
		wantErr error
	}{
		{
			name:    "blank pages without ocr",
			layer:   fakeLayer{pages: []string{"", " "}},
			file:    File{Name: "scan.pdf", Data: pdfBytes},
			wantErr: ErrUnextractable,
		},
		{
			name:    "ocr finds nothing",
			layer:   fakeLayer{pages: []string{""}},
			r:       &fakeRasterizer{},
			o:       fakeOCR{},
			file:    File{Name: "scan.pdf", Data: pdfBytes},
			wantErr: ErrUnextractable,
		},
		{
			name:    "rasterizer fails on every page",
			layer:   fakeLayer{pages: []string{""}},
			r:       &fakeRasterizer{err: errors.New("pdftoppm missing")},
			o:       fakeOCR{},
			file:    File{Name: "scan.pdf", Data: pdfBytes},
			wantErr: ErrUnextractable,
		},
		{
			name:    "empty text file",
			file:    File{Name: "notes.txt", Data: []byte("  \n ")},
			wantErr: ErrUnextractable,
		},
		{
			name:    "unsupported",
			file:    File{Name: "photo.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
			wantErr: ErrUnsupportedFormat,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestExtractor(tc.layer, tc.r, tc.o)
			_, err := e.Extract(context.Background(), tc.file)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestExtractSkipsFailedPage(t *testing.T) {
	layer := fakeLayer{pages: []string{"", "kept"}}
	e := newTestExtractor(layer, &fakeRasterizer{err: errors.New("boom")}, fakeOCR{})

	text, err := e.Extract(context.Background(), File{Name: "cv.pdf", Data: pdfBytes})
	require.NoError(t, err)
	assert.Equal(t, "kept", text)
}

func TestExtractCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newTestExtractor(fakeLayer{pages: []string{"a"}}, nil, nil)
	_, err := e.Extract(ctx, File{Name: "cv.pdf", Data: pdfBytes})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractPlainText(t *testing.T) {
	e := NewExtractor(nil, nil)
	text, err := e.Extract(context.Background(), File{Name: "cv.txt", Data: []byte(" Go developer \n")})
	require.NoError(t, err)
	assert.Equal(t, "Go developer", text)
}

func TestDocumentXMLText(t *testing.T) {
	xml := `<w:document><w:body><w:p><w:r><w:t>Ada Lovelace</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>R&amp;D</w:t></w:r></w:p><w:p></w:p></w:body></w:document>`
	assert.Equal(t, "Ada Lovelace\nGo R&D", documentXMLText(xml))
}

func TestDetectFormat(t *testing.T) {
	testCases := []struct {
		name string
		file File
		want Format
	}{
		{name: "pdf magic", file: File{Name: "x.bin", Data: []byte("%PDF-1.4")}, want: FormatPDF},
		{name: "docx by name", file: File{Name: "cv.DOCX", Data: []byte("PK\x03\x04")}, want: FormatDOCX},
		{name: "text by type", file: File{Name: "cv", ContentType: "text/plain"}, want: FormatText},
		{name: "csv", file: File{Name: "skills.csv", ContentType: "application/vnd.ms-excel", Data: []byte("skill,years\nGo,5\n")}, want: FormatText},
		{name: "rtf", file: File{Name: "cv.rtf", ContentType: "application/rtf", Data: []byte(`{\rtf1\ansi Ada Lovelace\par}`)}, want: FormatText},
		{name: "untyped octet stream", file: File{Name: "cv", ContentType: "application/octet-stream", Data: []byte("José Núñez\nGo developer")}, want: FormatText},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormat(tc.file)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetectFormatRejectsBinary(t *testing.T) {
	testCases := []struct {
		name string
		file File
	}{
		{name: "png", file: File{Name: "photo.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}},
		{name: "nul bytes", file: File{Name: "blob", ContentType: "application/octet-stream", Data: []byte("ab\x00cd")}},
		{name: "empty", file: File{Name: "blob"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DetectFormat(tc.file)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestExtractCSV(t *testing.T) {
	e := NewExtractor(nil, nil)
	text, err := e.Extract(context.Background(), File{Name: "skills.csv", Data: []byte("skill,years\nGo,5\n")})
	require.NoError(t, err)
	assert.Equal(t, "skill,years\nGo,5", text)
}
