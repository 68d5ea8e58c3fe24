package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"resumabuilder/internal/access"
	"resumabuilder/internal/domain"
	"resumabuilder/internal/extract"
	"resumabuilder/internal/usecase"
	"resumabuilder/pkg/ai"
	aimocks "resumabuilder/pkg/ai/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestWriteError(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "validation", err: &usecase.ValidationError{Field: "profile"}, wantStatus: 400, wantCode: "validation_error"},
		{name: "wrapped validation", err: fmt.Errorf("x: %w", &usecase.ValidationError{Field: "email"}), wantStatus: 400, wantCode: "validation_error"},
		{name: "unextractable", err: extract.ErrUnextractable, wantStatus: 422, wantCode: "unextractable"},
		{name: "no preview", err: usecase.ErrNoPreview, wantStatus: 409, wantCode: "no_preview"},
		{name: "gate", err: usecase.ErrUpgradeRequired, wantStatus: 403, wantCode: "upgrade_required"},
		{name: "upstream", err: fmt.Errorf("generate: %w", &ai.UpstreamError{Status: 500, Err: errors.New("boom")}), wantStatus: 502, wantCode: "upstream_error"},
		{name: "template unavailable", err: fmt.Errorf("%w: 404", usecase.ErrTemplateUnavailable), wantStatus: 502, wantCode: "template_unavailable"},
		{name: "otp invalid", err: usecase.ErrCodeInvalid, wantStatus: 400, wantCode: "otp_invalid"},
		{name: "otp expired", err: usecase.ErrCodeExpired, wantStatus: 400, wantCode: "otp_expired"},
		{name: "otp attempts exhausted", err: usecase.ErrTooManyAttempts, wantStatus: 429, wantCode: "otp_too_many_attempts"},
		{name: "busy", err: usecase.ErrGenerationInProgress, wantStatus: 409, wantCode: "generation_in_progress"},
		{name: "not found", err: domain.ErrNotFound, wantStatus: 404, wantCode: "not_found"},
		{name: "unknown", err: errors.New("disk on fire"), wantStatus: 500, wantCode: "internal_error"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, tc.err) })
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.wantCode, body["code"])
			assert.Equal(t, false, body["success"])
			if tc.wantStatus == 500 {
				assert.NotContains(t, body["error"], "disk")
			}
		})
	}
}

var classicID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

// oneTemplate knows only the free Classic template.
type oneTemplate struct{}

func (oneTemplate) ListActive(context.Context) ([]domain.Template, error) {
	return []domain.Template{{ID: classicID, Name: "Classic", IsActive: true}}, nil
}

func (oneTemplate) FindActive(_ context.Context, id uuid.UUID) (domain.Template, error) {
	if id != classicID {
		return domain.Template{}, domain.ErrNotFound
	}
	return domain.Template{ID: classicID, Name: "Classic", URL: "https://templates.example.com/classic.html", IsActive: true}, nil
}

type stubFetcher struct{}

func (stubFetcher) Fetch(context.Context, string) (string, error) { return "<h1>{{name}}</h1>", nil }

type stubRasterizer struct {
	calls int
	html  string
}

func (s *stubRasterizer) CapturePNG(_ context.Context, html string) ([]byte, error) {
	s.calls++
	s.html = html
	return []byte("png"), nil
}

type stubAssembler struct{}

func (stubAssembler) Assemble(img []byte, _ bool) ([]byte, error) { return append([]byte("%PDF-"), img...), nil }

// withTier stands in for Authenticate.
func withTier(tier access.Tier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(access.WithSession(c.UserContext(), access.Session{UserID: uuid.New(), Tier: tier}))
		return c.Next()
	}
}

func newTestApp(t *testing.T, tier access.Tier, completer ai.Completer) (*fiber.App, *stubRasterizer) {
	t.Helper()
	r := &stubRasterizer{}
	h := NewHandler(Services{
		Generator: usecase.NewGenerator(completer, nil),
		ATS:       usecase.NewATSAnalyzer(completer, nil),
		Letters:   usecase.NewCoverLetterWriter(completer, nil, nil),
		Processor: usecase.NewProcessor(oneTemplate{}, stubFetcher{}, r, stubAssembler{}, nil),
		Extractor: extract.NewExtractor(nil, nil),
	})
	app := fiber.New()
	app.Use(RequestID())
	h.Register(app, withTier(tier))
	return app, r
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestHealthAndRequestID(t *testing.T) {
	app, _ := newTestApp(t, access.TierFree, aimocks.NewMockCompleter(gomock.NewController(t)))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.Header.Get("X-Request-ID"))
}

func TestExportPDF(t *testing.T) {
	app, r := newTestApp(t, access.TierFree, aimocks.NewMockCompleter(gomock.NewController(t)))

	resp := postJSON(t, app, "/api/export/pdf", map[string]any{"html": "<h1>Ada</h1>", "name": "Ada"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, 0, r.calls)

	resp = postJSON(t, app, "/api/export/pdf", map[string]any{
		"template_id": classicID.String(),
		"profile":     map[string]string{"name": "Ada Lovelace"},
		"html":        `<iframe src="http://169.254.169.254/"></iframe>`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>Ada Lovelace</h1>", r.html)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="Ada_Lovelace.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))
	assert.Equal(t, "true", resp.Header.Get("X-Watermarked"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-png", string(body))
}

func TestPremiumRoutesGated(t *testing.T) {
	// no EXPECT: a gated request must never reach the provider
	app, _ := newTestApp(t, access.TierFree, aimocks.NewMockCompleter(gomock.NewController(t)))

	resp := postJSON(t, app, "/api/generate/resume", map[string]any{"profile": map[string]string{"name": "Ada"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = postJSON(t, app, "/api/generate/cover-letter", map[string]string{"company": "Acme", "job_title": "Eng"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGenerateResumeFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := aimocks.NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("not json at all", nil)
	app, _ := newTestApp(t, access.TierPaid, completer)

	resp := postJSON(t, app, "/api/generate/resume", map[string]any{
		"profile": map[string]string{"name": "Ada"}, "job_title": "Engineer",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Success bool `json:"success"`
		Resume  struct {
			Source  string `json:"source"`
			RawText string `json:"raw_text"`
		} `json:"resume"`
		Warning string `json:"warning"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "raw_fallback", body.Resume.Source)
	assert.Equal(t, "not json at all", body.Resume.RawText)
	assert.NotEmpty(t, body.Warning)
}

func TestAnalyzeATSEmpty(t *testing.T) {
	app, _ := newTestApp(t, access.TierFree, aimocks.NewMockCompleter(gomock.NewController(t)))
	resp := postJSON(t, app, "/api/analyze/ats", map[string]string{"resume_text": "Go", "job_description": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExtract(t *testing.T) {
	app, _ := newTestApp(t, access.TierFree, aimocks.NewMockCompleter(gomock.NewController(t)))

	upload := func(name, content string) *http.Response {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte(content))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/extract", &buf)
		req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := upload("cv.txt", "  Ada Lovelace\nEngineer  ")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Ada Lovelace\nEngineer", body["text"])

	resp = upload("cv.txt", "   ")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/extract", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
