package usecase

import (
	"resumabuilder/internal/model"

	"github.com/google/uuid"
)

// JobContext is the optional target job for a generation request.
type JobContext struct {
	JobTitle       string   `json:"job_title"`
	TargetSkills   []string `json:"target_skills"`
	JobDescription string   `json:"job_description"`
}

type PreviewRequest struct {
	TemplateID uuid.UUID     `json:"template_id"`
	Profile    model.Profile `json:"profile"`
	AIText     string        `json:"ai_text"`
}

type PreviewResult struct {
	HTML     string `json:"html"`
	Template string `json:"template"`
}

// ExportRequest repeats the preview inputs; the server renders them again
// rather than trusting client HTML. Name overrides the profile name for the
// file name.
type ExportRequest struct {
	PreviewRequest
	Name string `json:"name"`
}

type ExportResult struct {
	FileName    string `json:"file_name"`
	PDF         []byte `json:"-"`
	Watermarked bool   `json:"watermarked"`
	ArchiveKey  string `json:"archive_key,omitempty"`
}

type CoverLetterRequest struct {
	Profile        model.Profile `json:"profile"`
	Company        string        `json:"company"`
	JobTitle       string        `json:"job_title"`
	Points         string        `json:"points"`
	JobDescription string        `json:"job_description"`
}

type CoverLetterResult struct {
	CoverLetter string `json:"cover_letter"`
}
