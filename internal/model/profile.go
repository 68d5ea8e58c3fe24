package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Profile is the structured resume content a user edits in the builder.
type Profile struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Location       string          `json:"location"`
	LinkedIn       string          `json:"linkedin"`
	GitHub         string          `json:"github"`
	Portfolio      string          `json:"portfolio"`
	Title          string          `json:"title"`
	Summary        string          `json:"summary"`
	Skills         Tags            `json:"skills"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description Lines  `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	GPA         string `json:"gpa,omitempty"`
}

type Project struct {
	Title       string `json:"title"`
	Description Lines  `json:"description"`
	Tech        Tags   `json:"tech"`
	Duration    string `json:"duration,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   string `json:"year,omitempty"`
}

// IsEmpty reports whether the profile carries no usable content at all.
func (p Profile) IsEmpty() bool {
	scalars := []string{p.Name, p.Email, p.Phone, p.Location, p.LinkedIn, p.GitHub, p.Portfolio, p.Title, p.Summary}
	for _, s := range scalars {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return len(p.Skills) == 0 && len(p.Experience) == 0 && len(p.Education) == 0 &&
		len(p.Projects) == 0 && len(p.Certifications) == 0
}

// Normalize replaces nil lists with empty ones so the profile always
// serialises lists as [] and consumers never branch on nil.
func (p *Profile) Normalize() {
	p.Skills = p.Skills.orEmpty()
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	for i := range p.Experience {
		p.Experience[i].Description = p.Experience[i].Description.orEmpty()
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	for i := range p.Projects {
		p.Projects[i].Description = p.Projects[i].Description.orEmpty()
		p.Projects[i].Tech = p.Projects[i].Tech.orEmpty()
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
}

// Lines is an ordered list of text lines. It decodes from a JSON string
// (one line, or none when blank), an array of strings, or null.
type Lines []string

func (l *Lines) UnmarshalJSON(b []byte) error {
	out, err := decodeStringOrList(b, func(s string) []string {
		if strings.TrimSpace(s) == "" {
			return []string{}
		}
		return []string{s}
	})
	if err != nil {
		return err
	}
	*l = out
	return nil
}

func (l Lines) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(l.orEmpty()))
}

func (l Lines) orEmpty() Lines {
	if l == nil {
		return Lines{}
	}
	return l
}

// Tags is a list of short labels. A single JSON string is split on commas.
type Tags []string

func (t *Tags) UnmarshalJSON(b []byte) error {
	out, err := decodeStringOrList(b, splitTags)
	if err != nil {
		return err
	}
	*t = out
	return nil
}

func (t Tags) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(t.orEmpty()))
}

func (t Tags) orEmpty() Tags {
	if t == nil {
		return Tags{}
	}
	return t
}

func splitTags(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func decodeStringOrList(b []byte, fromString func(string) []string) ([]string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return []string{}, nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, err
		}
		return fromString(s), nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil, err
		}
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			s, ok := scalarText(item)
			if !ok {
				return nil, fmt.Errorf("unsupported list item %s", string(item))
			}
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or array, got %s", string(b))
	}
}

// scalarText renders strings, numbers and booleans as text.
func scalarText(b json.RawMessage) (string, bool) {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case float64, bool:
		return strings.TrimSpace(string(b)), true
	case nil:
		return "", true
	default:
		return "", false
	}
}
