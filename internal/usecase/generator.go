package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"resumabuilder/internal/domain"
	"resumabuilder/internal/metrics"
	"resumabuilder/internal/model"
	"resumabuilder/pkg/ai"
	"resumabuilder/pkg/ai/formatters"
)

// Generator turns a profile into AI-written resume content.
type Generator struct {
	completer ai.Completer
	usage     UsageRecorder
	inflight  *InFlight
}

func NewGenerator(c ai.Completer, usage UsageRecorder) *Generator {
	return &Generator{completer: c, usage: usage, inflight: NewInFlight()}
}

// resumeReply is the wire shape of a resume reply. Some replies name the
// technologies list "tech".
type resumeReply struct {
	model.AIResume
	Tech model.Tags `json:"tech"`
}

// Generate makes exactly one completion call. A reply that cannot be
// decoded is still a success: the result carries the raw text and a
// warning.
func (g *Generator) Generate(ctx context.Context, p model.Profile, job JobContext) (model.AIResume, error) {
	if err := ProfileValidator(p).Err(); err != nil {
		return model.AIResume{}, err
	}
	release, ok := g.inflight.Acquire(sessionUser(ctx))
	if !ok {
		return model.AIResume{}, ErrGenerationInProgress
	}
	defer release()

	p.Normalize()
	prompt, err := formatters.ResumePrompt(formatters.ResumeInput{
		Profile:        p,
		JobTitle:       job.JobTitle,
		TargetSkills:   job.TargetSkills,
		JobDescription: job.JobDescription,
	})
	if err != nil {
		return model.AIResume{}, err
	}

	raw, err := g.completer.Complete(ctx, ai.Request{
		Feature:     "resume",
		System:      formatters.ResumeSystemPrompt,
		User:        prompt,
		Temperature: formatters.ResumeTemperature,
		MaxTokens:   formatters.ResumeMaxTokens,
	})
	if err != nil {
		metrics.AIReplies.WithLabelValues("resume", "upstream_error").Inc()
		return model.AIResume{}, fmt.Errorf("generate resume: %w", asUpstream(err))
	}

	reply := ai.Decode[resumeReply](raw)
	slog.Info("ai reply", "feature", "resume", "bytes", len(raw), "outcome", reply.Kind.String())
	metrics.AIReplies.WithLabelValues("resume", reply.Kind.String()).Inc()

	parsed := func(source model.ReplySource) func(resumeReply) model.AIResume {
		return func(r resumeReply) model.AIResume {
			out := r.AIResume
			if len(out.Technologies) == 0 && len(r.Tech) > 0 {
				out.Technologies = r.Tech
			}
			out.Source = source
			out.RawText = ""
			out.Warning = ""
			out.Normalize()
			out.Warnings = schemaWarnings(out)
			return out
		}
	}
	out := ai.Fold(reply,
		parsed(model.SourceStructured),
		parsed(model.SourceRecovered),
		model.RawFallbackResume,
	)

	recordUsage(ctx, g.usage, domain.ActionResumeGenerated, map[string]interface{}{
		"job_title": job.JobTitle,
		"source":    string(out.Source),
	})
	return out, nil
}

// schemaWarnings checks the normalized record, so shapes Normalize accepts
// (a single string description, a missing list) are not reported.
func schemaWarnings(r model.AIResume) []string {
	doc, err := json.Marshal(r)
	if err != nil {
		slog.Warn("schema validation skipped", "error", err)
		return nil
	}
	msgs, err := model.ValidateResumeJSON(doc)
	if err != nil {
		slog.Warn("schema validation skipped", "error", err)
		return nil
	}
	return msgs
}
