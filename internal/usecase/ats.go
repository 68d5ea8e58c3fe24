package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"resumabuilder/internal/domain"
	"resumabuilder/internal/metrics"
	"resumabuilder/internal/model"
	"resumabuilder/pkg/ai"
	"resumabuilder/pkg/ai/formatters"
)

type ATSAnalyzer struct {
	completer ai.Completer
	usage     UsageRecorder
}

func NewATSAnalyzer(c ai.Completer, usage UsageRecorder) *ATSAnalyzer {
	return &ATSAnalyzer{completer: c, usage: usage}
}

type atsReply struct {
	Score                 float64    `json:"score"`
	MissingKeywords       model.Tags `json:"missing_keywords"`
	SuggestedImprovements model.Tags `json:"suggested_improvements"`
	Suggestions           model.Tags `json:"suggestions"`
}

func (r atsReply) result() model.ATSResult {
	improvements := r.SuggestedImprovements
	if len(improvements) == 0 {
		improvements = r.Suggestions
	}
	return model.ATSResult{
		Score:                 model.ClampScore(r.Score),
		MissingKeywords:       nonNil(r.MissingKeywords),
		SuggestedImprovements: nonNil(improvements),
	}
}

// Analyze compares a resume with a job description. Empty input is
// rejected before any provider call; an unparseable reply yields the
// default result.
func (a *ATSAnalyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (model.ATSResult, error) {
	if err := ATSInputValidator(resumeText, jobDescription).Err(); err != nil {
		return model.ATSResult{}, err
	}

	raw, err := a.completer.Complete(ctx, ai.Request{
		Feature:     "ats",
		System:      formatters.ATSSystemPrompt,
		User:        formatters.ATSPrompt(resumeText, jobDescription),
		Temperature: formatters.ATSTemperature,
		MaxTokens:   formatters.ATSMaxTokens,
	})
	if err != nil {
		metrics.AIReplies.WithLabelValues("ats", "upstream_error").Inc()
		return model.ATSResult{}, fmt.Errorf("analyze ats: %w", asUpstream(err))
	}

	reply := ai.Decode[atsReply](raw)
	slog.Info("ai reply", "feature", "ats", "bytes", len(raw), "outcome", reply.Kind.String())
	metrics.AIReplies.WithLabelValues("ats", reply.Kind.String()).Inc()

	res := ai.Fold(reply, atsReply.result, atsReply.result, func(string) model.ATSResult {
		return model.DefaultATSResult()
	})
	recordUsage(ctx, a.usage, domain.ActionATSCheck, map[string]interface{}{"score": res.Score})
	return res, nil
}

func asUpstream(err error) error {
	if errors.Is(err, ai.ErrUpstream) {
		return err
	}
	return &ai.UpstreamError{Err: err}
}

func nonNil(tags model.Tags) []string {
	if tags == nil {
		return []string{}
	}
	return []string(tags)
}
