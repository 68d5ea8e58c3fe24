package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"
	"unicode"

	"resumabuilder/internal/access"
	"resumabuilder/internal/domain"
	"resumabuilder/internal/metrics"
	"resumabuilder/internal/render"

	"github.com/google/uuid"
)

type TemplateStore interface {
	ListActive(ctx context.Context) ([]domain.Template, error)
	// FindActive returns domain.ErrNotFound for unknown or inactive ids.
	FindActive(ctx context.Context, id uuid.UUID) (domain.Template, error)
}

type TemplateFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Rasterizer captures rendered HTML as one full-page PNG.
type Rasterizer interface {
	CapturePNG(ctx context.Context, html string) ([]byte, error)
}

type Assembler interface {
	Assemble(img []byte, watermark bool) ([]byte, error)
}

// Archive stores exported files. It is optional.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Processor owns the preview and export pipeline.
type Processor struct {
	templates  TemplateStore
	fetcher    TemplateFetcher
	rasterizer Rasterizer
	assembler  Assembler
	archive    Archive
	usage      UsageRecorder
}

func NewProcessor(templates TemplateStore, fetcher TemplateFetcher, r Rasterizer, a Assembler, usage UsageRecorder) *Processor {
	return &Processor{templates: templates, fetcher: fetcher, rasterizer: r, assembler: a, usage: usage}
}

// WithArchive enables archiving of exported PDFs.
func (p *Processor) WithArchive(a Archive) *Processor {
	p.archive = a
	return p
}

// Templates lists active templates, premium ones included; the gate
// applies when one is used.
func (p *Processor) Templates(ctx context.Context) ([]domain.Template, error) {
	return p.templates.ListActive(ctx)
}

// Preview renders the profile into the chosen template.
func (p *Processor) Preview(ctx context.Context, req PreviewRequest) (PreviewResult, error) {
	if req.TemplateID == uuid.Nil {
		return PreviewResult{}, &ValidationError{Field: "template_id"}
	}
	tpl, err := p.templates.FindActive(ctx, req.TemplateID)
	if errors.Is(err, domain.ErrNotFound) {
		return PreviewResult{}, ErrTemplateNotFound
	}
	if err != nil {
		return PreviewResult{}, fmt.Errorf("load template: %w", err)
	}
	if !access.CanAccess(access.TemplateFeature(tpl), sessionTier(ctx)) {
		return PreviewResult{}, ErrUpgradeRequired
	}

	body, err := p.fetcher.Fetch(ctx, tpl.URL)
	if err != nil {
		slog.Warn("template fetch failed", "template", tpl.ID, "error", err)
		return PreviewResult{}, fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
	}
	if strings.TrimSpace(body) == "" {
		return PreviewResult{}, fmt.Errorf("%w: empty body", ErrTemplateUnavailable)
	}

	req.Profile.Normalize()
	html := render.Render(body, render.Data{Profile: req.Profile, AIText: req.AIText})
	return PreviewResult{HTML: html, Template: tpl.Name}, nil
}

// Export renders the preview again from its inputs and turns it into a
// one-page PDF. Sessions without watermark-free export get a watermark.
func (p *Processor) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	if req.TemplateID == uuid.Nil {
		return ExportResult{}, ErrNoPreview
	}
	preview, err := p.Preview(ctx, req.PreviewRequest)
	if err != nil {
		return ExportResult{}, err
	}
	tier := sessionTier(ctx)

	start := time.Now()
	img, err := p.rasterizer.CapturePNG(ctx, preview.HTML)
	if err != nil {
		return ExportResult{}, fmt.Errorf("rasterize preview: %w", err)
	}
	watermark := !access.CanAccess(access.FeatureWatermarkFreeExport, tier)
	doc, err := p.assembler.Assemble(img, watermark)
	if err != nil {
		return ExportResult{}, fmt.Errorf("assemble pdf: %w", err)
	}

	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = req.Profile.Name
	}
	res := ExportResult{FileName: FileName(name), PDF: doc, Watermarked: watermark}
	if p.archive != nil {
		key := path.Join("exports", sessionUser(ctx).String(), uuid.NewString()+".pdf")
		if err := p.archive.Put(ctx, key, doc, "application/pdf"); err != nil {
			slog.Warn("archive export failed (non-fatal)", "key", key, "error", err)
		} else {
			res.ArchiveKey = key
		}
	}

	metrics.Exports.WithLabelValues(string(tier)).Inc()
	slog.Info("pdf exported", "bytes", len(doc), "watermark", watermark, "took", time.Since(start))
	recordUsage(ctx, p.usage, domain.ActionPDFExport, map[string]interface{}{"file_name": res.FileName})
	return res, nil
}

// FileName derives a download name from the display name, falling back
// to resume.pdf.
func FileName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	base := strings.Trim(b.String(), "._")
	if base == "" {
		return "resume.pdf"
	}
	return base + ".pdf"
}
