package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"resumabuilder/internal/domain"
	"resumabuilder/internal/metrics"
	"resumabuilder/pkg/ai"
	"resumabuilder/pkg/ai/formatters"

	"github.com/google/uuid"
)

type CoverLetterStore interface {
	SaveCoverLetter(ctx context.Context, l *domain.CoverLetter) error
}

type CoverLetterWriter struct {
	completer ai.Completer
	letters   CoverLetterStore
	usage     UsageRecorder
}

func NewCoverLetterWriter(c ai.Completer, letters CoverLetterStore, usage UsageRecorder) *CoverLetterWriter {
	return &CoverLetterWriter{completer: c, letters: letters, usage: usage}
}

// Write asks for a short letter. The reply is plain text and is returned
// as given, trimmed.
func (w *CoverLetterWriter) Write(ctx context.Context, req CoverLetterRequest) (CoverLetterResult, error) {
	if err := CoverLetterValidator(req).Err(); err != nil {
		return CoverLetterResult{}, err
	}
	points := req.Points
	if strings.TrimSpace(points) == "" {
		points = req.JobDescription
	}

	raw, err := w.completer.Complete(ctx, ai.Request{
		Feature: "cover_letter",
		System:  formatters.CoverLetterSystemPrompt,
		User: formatters.CoverLetterPrompt(formatters.CoverLetterInput{
			CandidateName: req.Profile.Name,
			JobTitle:      req.JobTitle,
			Company:       req.Company,
			Points:        points,
		}),
		Temperature: formatters.CoverLetterTemperature,
		MaxTokens:   formatters.CoverLetterMaxTokens,
	})
	if err != nil {
		metrics.AIReplies.WithLabelValues("cover_letter", "upstream_error").Inc()
		return CoverLetterResult{}, fmt.Errorf("write cover letter: %w", asUpstream(err))
	}
	letter := strings.TrimSpace(ai.StripFences(raw))
	slog.Info("ai reply", "feature", "cover_letter", "bytes", len(raw))
	metrics.AIReplies.WithLabelValues("cover_letter", "text").Inc()

	if uid := sessionUser(ctx); w.letters != nil && uid != uuid.Nil {
		err := w.letters.SaveCoverLetter(ctx, &domain.CoverLetter{
			UserID:   uid,
			JobTitle: req.JobTitle,
			Company:  req.Company,
			Content:  letter,
		})
		if err != nil {
			slog.Warn("save cover letter failed (non-fatal)", "user", uid, "error", err)
		}
	}
	recordUsage(ctx, w.usage, domain.ActionCoverLetterGenerated, map[string]interface{}{
		"company":   req.Company,
		"job_title": req.JobTitle,
	})
	return CoverLetterResult{CoverLetter: letter}, nil
}
