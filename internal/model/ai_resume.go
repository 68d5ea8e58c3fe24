package model

import "encoding/json"

// SchemaVersion identifies the one canonical AI resume shape. Prompts,
// decoding and validation all use it.
const SchemaVersion = "resume.v1"

// ReplySource records how an AI reply was turned into content.
type ReplySource string

const (
	SourceStructured  ReplySource = "structured"
	SourceRecovered   ReplySource = "recovered"
	SourceRawFallback ReplySource = "raw_fallback"
)

// FallbackWarning is attached to results built from unparseable AI text.
const FallbackWarning = "AI did not return strict JSON; see raw_text for debugging."

type Reference struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Contact  string `json:"contact,omitempty"`
}

// UnmarshalJSON also accepts a bare string, taken as the name.
func (r *Reference) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = Reference{Name: s}
		return nil
	}
	type plain Reference
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Reference(p)
	return nil
}

// AIResume is the normalized content produced by a resume generation
// request. When Source is SourceRawFallback only RawText and Warning are
// meaningful.
type AIResume struct {
	SchemaVersion     string          `json:"schema_version"`
	Source            ReplySource     `json:"source"`
	Summary           string          `json:"summary"`
	Skills            Tags            `json:"skills"`
	Technologies      Tags            `json:"technologies"`
	Languages         Tags            `json:"languages"`
	References        []Reference     `json:"references"`
	Experience        []Experience    `json:"experience"`
	Education         []Education     `json:"education"`
	Projects          []Project       `json:"projects"`
	Certifications    []Certification `json:"certifications"`
	ExtractedKeywords Tags            `json:"extracted_keywords"`
	MatchedKeywords   Tags            `json:"matched_keywords"`
	RawText           string          `json:"raw_text,omitempty"`
	Warning           string          `json:"warning,omitempty"`
	Warnings          []string        `json:"warnings,omitempty"`
}

// Normalize fills every list with an empty slice and stamps the schema
// version.
func (r *AIResume) Normalize() {
	r.SchemaVersion = SchemaVersion
	p := Profile{
		Skills:         r.Skills,
		Experience:     r.Experience,
		Education:      r.Education,
		Projects:       r.Projects,
		Certifications: r.Certifications,
	}
	p.Normalize()
	r.Skills, r.Experience, r.Education, r.Projects, r.Certifications =
		p.Skills, p.Experience, p.Education, p.Projects, p.Certifications
	r.Technologies = r.Technologies.orEmpty()
	r.Languages = r.Languages.orEmpty()
	r.ExtractedKeywords = r.ExtractedKeywords.orEmpty()
	r.MatchedKeywords = r.MatchedKeywords.orEmpty()
	if r.References == nil {
		r.References = []Reference{}
	}
}

// ApplyTo overlays generated content onto a profile. Contact details are
// kept; sections the model left empty keep the user's own entries.
func (r AIResume) ApplyTo(p Profile) Profile {
	if r.Source == SourceRawFallback {
		return p
	}
	if r.Summary != "" {
		p.Summary = r.Summary
	}
	if len(r.Skills) > 0 {
		p.Skills = r.Skills
	}
	if len(r.Experience) > 0 {
		p.Experience = r.Experience
	}
	if len(r.Education) > 0 {
		p.Education = r.Education
	}
	if len(r.Projects) > 0 {
		p.Projects = r.Projects
	}
	if len(r.Certifications) > 0 {
		p.Certifications = r.Certifications
	}
	p.Normalize()
	return p
}

// RawFallbackResume wraps text the model returned that could not be parsed.
func RawFallbackResume(raw string) AIResume {
	r := AIResume{Source: SourceRawFallback, RawText: raw, Warning: FallbackWarning}
	r.Normalize()
	return r
}
