package http

import (
	"io"
	"strings"
	"time"

	"resumabuilder/internal/access"
	"resumabuilder/internal/extract"
	"resumabuilder/internal/model"
	"resumabuilder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MaxUploadBytes bounds documents accepted by /api/extract.
const MaxUploadBytes = 10 << 20

type Handler struct {
	generator *usecase.Generator
	ats       *usecase.ATSAnalyzer
	letters   *usecase.CoverLetterWriter
	processor *usecase.Processor
	extractor *extract.Extractor
	signup    *usecase.Signup
	resumes   *usecase.Resumes
	signer    access.TokenSigner
}

type Services struct {
	Generator *usecase.Generator
	ATS       *usecase.ATSAnalyzer
	Letters   *usecase.CoverLetterWriter
	Processor *usecase.Processor
	Extractor *extract.Extractor
	Signup    *usecase.Signup
	Resumes   *usecase.Resumes
	Signer    access.TokenSigner
}

func NewHandler(s Services) *Handler {
	return &Handler{
		generator: s.Generator,
		ats:       s.ATS,
		letters:   s.Letters,
		processor: s.Processor,
		extractor: s.Extractor,
		signup:    s.Signup,
		resumes:   s.Resumes,
		signer:    s.Signer,
	}
}

func badPayload(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "invalid_payload", "invalid payload")
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ResumaBuilder backend is running")
}

func (h *Handler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.processor.Templates(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "templates": templates})
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	var req usecase.PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	res, err := h.processor.Preview(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "html": res.HTML, "template": res.Template})
}

type generateReq struct {
	Profile model.Profile `json:"profile"`
	usecase.JobContext
}

func (h *Handler) GenerateResume(c *fiber.Ctx) error {
	var req generateReq
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	res, err := h.generator.Generate(c.UserContext(), req.Profile, req.JobContext)
	if err != nil {
		return writeError(c, err)
	}
	body := fiber.Map{"success": true, "resume": res}
	if res.Warning != "" {
		body["warning"] = res.Warning
	}
	return c.JSON(body)
}

func (h *Handler) GenerateCoverLetter(c *fiber.Ctx) error {
	var req usecase.CoverLetterRequest
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	res, err := h.letters.Write(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "cover_letter": res.CoverLetter})
}

type atsReq struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

func (h *Handler) AnalyzeATS(c *fiber.Ctx) error {
	var req atsReq
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	res, err := h.ats.Analyze(c.UserContext(), req.ResumeText, req.JobDescription)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}

func (h *Handler) Extract(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "validation_error", "file is required")
	}
	if fh.Size > MaxUploadBytes {
		return fail(c, fiber.StatusRequestEntityTooLarge, "file_too_large", "file is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return writeError(c, err)
	}

	text, err := h.extractor.Extract(c.UserContext(), extract.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "text": text})
}

func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	var req usecase.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	res, err := h.processor.Export(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.FileName+`"`)
	if res.Watermarked {
		c.Set("X-Watermarked", "true")
	}
	return c.Send(res.PDF)
}

type otpReq struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	FullName string `json:"full_name"`
}

func (h *Handler) SendOTP(c *fiber.Ctx) error {
	var req otpReq
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	if err := h.signup.SendCode(c.UserContext(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "OTP sent to your email"})
}

func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req otpReq
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	acct, err := h.signup.Verify(c.UserContext(), req.Email, strings.TrimSpace(req.OTP), req.FullName)
	if err != nil {
		return writeError(c, err)
	}
	token, err := h.signer.Sign(acct.ID, acct.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "email verified",
		"account":    acct,
		"token":      token,
		"expires_at": time.Now().Add(h.signer.TTL).UTC(),
	})
}

func (h *Handler) ListResumes(c *fiber.Ctx) error {
	list, err := h.resumes.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "resumes": list})
}

func (h *Handler) CreateResume(c *fiber.Ctx) error {
	var req usecase.ResumeInput
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	res, err := h.resumes.Create(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "resume": res})
}

func (h *Handler) UpdateResume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "validation_error", "invalid id")
	}
	var req usecase.ResumeInput
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	res, err := h.resumes.Update(c.UserContext(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "resume": res})
}

func (h *Handler) DeleteResume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "validation_error", "invalid id")
	}
	if err := h.resumes.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.resumes.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}
