package http

import (
	"errors"
	"log/slog"

	"resumabuilder/internal/domain"
	"resumabuilder/internal/extract"
	"resumabuilder/internal/usecase"
	"resumabuilder/pkg/ai"

	"github.com/gofiber/fiber/v2"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// mappings is checked in order; the first match wins.
var mappings = []errorMapping{
	{usecase.ErrUnauthenticated, fiber.StatusUnauthorized, "unauthenticated"},
	{usecase.ErrUpgradeRequired, fiber.StatusForbidden, "upgrade_required"},
	{usecase.ErrNoPreview, fiber.StatusConflict, "no_preview"},
	{usecase.ErrGenerationInProgress, fiber.StatusConflict, "generation_in_progress"},
	{usecase.ErrTemplateNotFound, fiber.StatusNotFound, "template_not_found"},
	{usecase.ErrTemplateUnavailable, fiber.StatusBadGateway, "template_unavailable"},
	{usecase.ErrCodeNotRequested, fiber.StatusBadRequest, "otp_not_requested"},
	{usecase.ErrCodeInvalid, fiber.StatusBadRequest, "otp_invalid"},
	{usecase.ErrCodeExpired, fiber.StatusBadRequest, "otp_expired"},
	{usecase.ErrCodeUsed, fiber.StatusBadRequest, "otp_used"},
	{usecase.ErrTooManyAttempts, fiber.StatusTooManyRequests, "otp_too_many_attempts"},
	{usecase.ErrDelivery, fiber.StatusBadGateway, "delivery_failed"},
	{extract.ErrUnextractable, fiber.StatusUnprocessableEntity, "unextractable"},
	{extract.ErrUnsupportedFormat, fiber.StatusUnsupportedMediaType, "unsupported_format"},
	{ai.ErrUpstream, fiber.StatusBadGateway, "upstream_error"},
	{domain.ErrNotFound, fiber.StatusNotFound, "not_found"},
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg, "code": code})
}

// writeError maps a usecase error to its HTTP status. Unmapped errors are
// logged and reported as 500 without detail.
func writeError(c *fiber.Ctx, err error) error {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "error": verr.Error(), "code": "validation_error", "field": verr.Field,
		})
	}
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			msg := m.target.Error()
			if m.status == fiber.StatusBadGateway {
				slog.Warn("upstream failure", "path", c.Path(), "request_id", requestID(c), "error", err)
			}
			return fail(c, m.status, m.code, msg)
		}
	}
	slog.Error("request failed", "path", c.Path(), "request_id", requestID(c), "error", err)
	return fail(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
}
