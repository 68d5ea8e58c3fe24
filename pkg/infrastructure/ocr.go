package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// PopplerRasterizer renders PDF pages with poppler's pdftoppm.
type PopplerRasterizer struct {
	bin string
}

func NewPopplerRasterizer() *PopplerRasterizer {
	return &PopplerRasterizer{bin: "pdftoppm"}
}

func (p *PopplerRasterizer) RasterizePage(ctx context.Context, pdf []byte, pageNum int, dpi int) ([]byte, error) {
	dir, err := os.MkdirTemp("", "rasterize-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return nil, err
	}
	outPrefix := filepath.Join(dir, "page")
	n := strconv.Itoa(pageNum)
	cmd := exec.CommandContext(ctx, p.bin, "-f", n, "-l", n, "-r", strconv.Itoa(dpi), "-png", "-singlefile", in, outPrefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		slog.Error("pdftoppm failed", "page", pageNum, "error", err, "output", string(out))
		return nil, fmt.Errorf("pdftoppm page %d: %w", pageNum, err)
	}
	return os.ReadFile(outPrefix + ".png")
}

// TesseractOCR runs the tesseract CLI on an image read from stdin.
type TesseractOCR struct {
	bin  string
	lang string
}

func NewTesseractOCR(lang string) *TesseractOCR {
	if lang == "" {
		lang = "eng"
	}
	return &TesseractOCR{bin: "tesseract", lang: lang}
}

func (t *TesseractOCR) Recognize(ctx context.Context, img []byte) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.bin, "stdin", "stdout", "-l", t.lang)
	cmd.Stdin = bytes.NewReader(img)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		slog.Error("tesseract failed", "error", err, "stderr", stderr.String())
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return stdout.String(), nil
}

// OCRToolsAvailable reports whether both the rasterizer and OCR binaries are on
// PATH.
func OCRToolsAvailable() bool {
	for _, bin := range []string{"pdftoppm", "tesseract"} {
		if _, err := exec.LookPath(bin); err != nil {
			return false
		}
	}
	return true
}
