package model

// ATSResult scores how well a resume matches a job description.
type ATSResult struct {
	Score                 int      `json:"score"`
	MissingKeywords       []string `json:"missing_keywords"`
	SuggestedImprovements []string `json:"suggested_improvements"`
	Fallback              bool     `json:"fallback,omitempty"`
}

// DefaultATSResult is returned when the model's reply cannot be parsed.
func DefaultATSResult() ATSResult {
	return ATSResult{
		Score:                 70,
		MissingKeywords:       []string{"Leadership", "Project Management"},
		SuggestedImprovements: []string{"Add measurable results and job-specific keywords."},
		Fallback:              true,
	}
}

// ClampScore bounds a raw score to [0,100].
func ClampScore(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(v + 0.5)
	}
}
