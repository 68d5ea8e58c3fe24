package http

import (
	"resumabuilder/internal/access"

	"github.com/gofiber/fiber/v2"
)

// Register mounts every API route. auth must establish the session; it
// runs on every /api route except signup and the template list.
func (h *Handler) Register(app *fiber.App, auth fiber.Handler) {
	app.Get("/", h.Health)

	api := app.Group("/api")
	api.Post("/send-otp", h.SendOTP)
	api.Post("/verify-otp", h.VerifyOTP)
	api.Get("/templates", h.ListTemplates)

	authed := api.Group("", auth)
	authed.Post("/preview", access.RequireFeature(access.FeatureResumeBuilder), h.Preview)
	authed.Post("/generate/resume", access.RequireFeature(access.FeatureAIGeneration), h.GenerateResume)
	authed.Post("/generate/cover-letter", access.RequireFeature(access.FeatureCoverLetter), h.GenerateCoverLetter)
	authed.Post("/analyze/ats", access.RequireFeature(access.FeatureATSCheck), h.AnalyzeATS)
	authed.Post("/extract", access.RequireFeature(access.FeatureTextExtraction), h.Extract)
	authed.Post("/export/pdf", access.RequireFeature(access.FeaturePDFExport), h.ExportPDF)

	authed.Get("/resumes", h.ListResumes)
	authed.Post("/resumes", h.CreateResume)
	authed.Put("/resumes/:id", h.UpdateResume)
	authed.Delete("/resumes/:id", h.DeleteResume)
	authed.Get("/dashboard", h.Dashboard)
}
