package formatters

import (
	"fmt"
	"strings"
)

const (
	CoverLetterSystemPrompt = "You are a professional HR assistant."
	CoverLetterTemperature  = 0.7
	CoverLetterMaxTokens    = 600
)

type CoverLetterInput struct {
	CandidateName string
	JobTitle      string
	Company       string
	Points        string
}

func CoverLetterPrompt(in CoverLetterInput) string {
	return fmt.Sprintf(`Write a concise, personalized cover letter for %s applying for %s at %s.
Mention these points: %s.
Include 3 short paragraphs and a closing line.`,
		orDefault(in.CandidateName, "the candidate"),
		orDefault(in.JobTitle, "the role"),
		orDefault(in.Company, "the company"),
		orDefault(in.Points, "N/A"))
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
