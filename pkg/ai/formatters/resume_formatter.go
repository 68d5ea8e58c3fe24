// Package formatters builds the prompts sent to the completion provider.
package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumabuilder/internal/model"
)

// MaxTargetSkills caps how many target skills are forwarded to the model.
const MaxTargetSkills = 6

const (
	ResumeSystemPrompt = "You are an expert resume writer and ATS optimizer. Output strict JSON only."
	ResumeTemperature  = 0.15
	ResumeMaxTokens    = 1200
)

type ResumeInput struct {
	Profile        model.Profile
	JobTitle       string
	TargetSkills   []string
	JobDescription string
}

const resumeOutputShape = `{
  "summary": string,
  "skills": [string],
  "technologies": [string],
  "languages": [string],
  "references": [ { "name": "", "position": "", "contact": "" } ],
  "experience": [ { "title": "", "company": "", "duration": "", "description": [string] } ],
  "education": [ { "degree": "", "institution": "", "year": "", "gpa": "" } ],
  "projects": [ { "title": "", "description": [string], "tech": [string], "duration": "" } ],
  "certifications": [ { "name": "", "issuer": "", "year": "" } ],
  "extracted_keywords": [string],
  "matched_keywords": [string]
}`

// ResumePrompt asks for an ATS-optimized resume in the resume.v1 shape.
func ResumePrompt(in ResumeInput) (string, error) {
	profile, err := json.MarshalIndent(in.Profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	skills := CapSkills(in.TargetSkills)
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	jd := strings.TrimSpace(in.JobDescription)
	if jd == "" {
		jd = "(none)"
	}

	var b strings.Builder
	b.WriteString("Given the user profile and optional job description below, produce a strict JSON object (no text, no markdown, no code fences) representing an ATS-optimized professional resume.\n\n")
	b.WriteString("Requirements:\n")
	b.WriteString("1) Use concise, action-oriented bullet content and industry keywords suitable for ATS parsing.\n")
	b.WriteString("2) Prioritize keywords from the job description (if provided) and incorporate the target skills.\n")
	b.WriteString("3) Use only facts present in the profile; do not invent employers, dates or degrees.\n")
	b.WriteString("4) If a field is empty, output an empty array or empty string.\n\n")
	fmt.Fprintf(&b, "Output JSON schema (%s, follow exactly):\n%s\n\n", model.SchemaVersion, resumeOutputShape)
	fmt.Fprintf(&b, "Profile JSON:\n%s\n\n", profile)
	fmt.Fprintf(&b, "Job Title: %s\n", strings.TrimSpace(in.JobTitle))
	fmt.Fprintf(&b, "Target Skills: %s\n", skillsJSON)
	fmt.Fprintf(&b, "Job Description (if available):\n%s\n\n", jd)
	b.WriteString("Important: return ONLY the JSON object (no explanations).")
	return b.String(), nil
}

// CapSkills trims blanks and keeps at most MaxTargetSkills entries.
func CapSkills(skills []string) []string {
	out := make([]string, 0, MaxTargetSkills)
	for _, s := range skills {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxTargetSkills {
			break
		}
	}
	return out
}
