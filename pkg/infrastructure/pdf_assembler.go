package infrastructure

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/go-pdf/fpdf"
)

// A4PageWidthMM is the fixed width of exported pages.
const A4PageWidthMM = 210.0

const watermarkText = "Created with ResumaBuilder"

// PDFAssembler embeds a captured page image into a one-page PDF.
type PDFAssembler struct{}

func NewPDFAssembler() *PDFAssembler { return &PDFAssembler{} }

// PageHeight returns the page height that keeps the image's aspect ratio
// at A4 width.
func PageHeight(imgW, imgH int) float64 {
	return float64(imgH) * A4PageWidthMM / float64(imgW)
}

// Assemble places img full-bleed on a single page 210 mm wide whose height
// follows the image's aspect ratio. Long content is not split over pages.
func (a *PDFAssembler) Assemble(img []byte, watermark bool) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}
	if format != "png" {
		return nil, fmt.Errorf("unexpected capture format %q", format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("empty capture %dx%d", cfg.Width, cfg.Height)
	}
	height := PageHeight(cfg.Width, cfg.Height)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: A4PageWidthMM, Ht: height})

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("page", opts, bytes.NewReader(img))
	pdf.ImageOptions("page", 0, 0, A4PageWidthMM, height, false, opts, 0, "")

	if watermark {
		pdf.SetFont("Helvetica", "B", 42)
		pdf.SetTextColor(150, 150, 150)
		pdf.SetAlpha(0.2, "Normal")
		pdf.TransformBegin()
		pdf.TransformRotate(35, A4PageWidthMM/2, height/2)
		w := pdf.GetStringWidth(watermarkText)
		pdf.Text(A4PageWidthMM/2-w/2, height/2, watermarkText)
		pdf.TransformEnd()
		pdf.SetAlpha(1, "Normal")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
