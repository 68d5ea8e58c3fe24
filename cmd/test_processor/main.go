// Command test_processor runs the generate, preview and export pipeline
// against a local mock completion server. It needs Chrome only when -pdf
// is set.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"resumabuilder/internal/access"
	"resumabuilder/internal/domain"
	"resumabuilder/internal/model"
	"resumabuilder/internal/render"
	"resumabuilder/internal/usecase"
	"resumabuilder/pkg/ai"
	"resumabuilder/pkg/infrastructure"

	"github.com/google/uuid"
)

const mockResume = `{"summary":"Backend engineer focused on reliable data pipelines.",
"skills":["Go","PostgreSQL","Kubernetes"],"tech":["pgx","Fiber"],
"experience":[{"title":"Engineer","company":"Acme","duration":"2021 - 2024",
"description":["Cut p99 latency of the ingest API by 40%.","Led the move to event-driven processing."]}],
"education":[{"degree":"BSc Computer Science","institution":"State University","year":"2020"}]}`

const mockATS = `{"score":78,"missing_keywords":["Terraform"],"suggested_improvements":["Mention infrastructure as code."]}`

const sampleTemplate = `<html><body><h1>{{name}}</h1><p>{{title}} | {{email}}</p>
<h2>Summary</h2><p>{{summary}}</p><h2>Skills</h2><p>{{skills}}</p>
<h2>Experience</h2>{{experience}}<h2>Education</h2>{{education}}{{unknown_token}}</body></html>`

// replies picks the mock reply style for resume requests.
var replies = map[string]func(string) string{
	"structured": func(s string) string { return s },
	"fenced":     func(s string) string { return "```json\n" + s + "\n```" },
	"prose":      func(s string) string { return "Sure! Here is the resume:\n" + s + "\nLet me know if you need changes." },
	"garbage":    func(string) string { return "I am unable to produce JSON right now." },
}

func startMockAI(addr, mode string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(body, &req); err != nil || len(req.Messages) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		content := replies[mode](mockResume)
		if strings.Contains(req.Messages[0].Content, "ATS") {
			content = mockATS
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "mock-" + uuid.NewString(),
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "mock",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
		})
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock ai server failed", "error", err)
			os.Exit(1)
		}
	}()
	return srv
}

func main() {
	addr := flag.String("addr", "127.0.0.1:8000", "mock completion server address")
	mode := flag.String("mode", "structured", "resume reply style: structured, fenced, prose, garbage")
	pdfOut := flag.String("pdf", "", "write a PDF export to this path (needs Chrome)")
	flag.Parse()
	if _, ok := replies[*mode]; !ok {
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}

	srv := startMockAI(*addr, *mode)
	defer srv.Shutdown(context.Background())
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	ctx = access.WithSession(ctx, access.Session{UserID: uuid.New(), Tier: access.TierPaid})

	completer := ai.NewOpenAIClient("mock-key", "http://"+*addr+"/", "mock", 10*time.Second)
	profile := model.Profile{Name: "Test User", Email: "t@example.com", Title: "Engineer", Skills: model.Tags{"Go"}}

	generated, err := usecase.NewGenerator(completer, nil).Generate(ctx, profile, usecase.JobContext{
		JobTitle:     "Platform Engineer",
		TargetSkills: []string{"Go", "Kubernetes"},
	})
	if err != nil {
		fmt.Printf("generate failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("generate: source=%s warnings=%d\n", generated.Source, len(generated.Warnings))

	score, err := usecase.NewATSAnalyzer(completer, nil).Analyze(ctx, "Go engineer", "Needs Go and Terraform")
	if err != nil {
		fmt.Printf("ats failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("ats: score=%d missing=%v\n", score.Score, score.MissingKeywords)

	html := render.Render(sampleTemplate, render.Data{Profile: generated.ApplyTo(profile), AIText: generated.RawText})
	fmt.Printf("preview: %d bytes, leftover placeholders=%v\n", len(html), render.HasPlaceholders(html))

	if *pdfOut == "" {
		return
	}
	p := usecase.NewProcessor(staticTemplates{}, staticTemplates{}, infrastructure.NewChromedpRasterizer(os.Getenv("CHROME_PATH"), nil),
		infrastructure.NewPDFAssembler(), nil)
	res, err := p.Export(ctx, usecase.ExportRequest{PreviewRequest: usecase.PreviewRequest{
		TemplateID: sampleID,
		Profile:    generated.ApplyTo(profile),
		AIText:     generated.RawText,
	}})
	if err != nil {
		fmt.Printf("export failed: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*pdfOut, res.PDF, 0o644); err != nil {
		fmt.Printf("write pdf: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("export: %s (%d bytes, watermarked=%v)\n", *pdfOut, len(res.PDF), res.Watermarked)
}

var sampleID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// staticTemplates serves sampleTemplate as the only template.
type staticTemplates struct{}

func (staticTemplates) ListActive(context.Context) ([]domain.Template, error) { return nil, nil }

func (staticTemplates) FindActive(_ context.Context, id uuid.UUID) (domain.Template, error) {
	if id != sampleID {
		return domain.Template{}, domain.ErrNotFound
	}
	return domain.Template{ID: sampleID, Name: "Sample", URL: "sample", IsActive: true}, nil
}

func (staticTemplates) Fetch(context.Context, string) (string, error) { return sampleTemplate, nil }
