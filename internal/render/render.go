// Package render substitutes profile data into HTML resume templates.
package render

import (
	"html"
	"regexp"
	"strings"

	"resumabuilder/internal/model"

	"github.com/ecodeclub/ekit/slice"
)

// Data is everything a template can reference.
type Data struct {
	Profile model.Profile
	// AIText is a consolidated generated block substituted verbatim into
	// {{ai_resume}}.
	AIText string
}

const lineBreak = "<br>"

var (
	tokenRe    = regexp.MustCompile(`\{\{\s*([\w.-]+)\s*\}\}`)
	spaceRunRe = regexp.MustCompile(`\s{2,}`)
	breakRunRe = regexp.MustCompile(`(?i)(<br\s*/?>\s*){2,}`)
)

// Tokens lists every placeholder name Render understands.
var Tokens = []string{
	"name", "email", "phone", "location", "linkedin", "github", "portfolio",
	"title", "summary", "skills", "experience", "education", "projects",
	"certifications", "ai_resume",
}

// Render replaces every recognized {{token}} in tpl with the matching
// value from d, strips any placeholder left over, and collapses runs of
// whitespace and line breaks. It is pure: equal inputs give equal output.
func Render(tpl string, d Data) string {
	values := fields(d)
	out := tokenRe.ReplaceAllStringFunc(tpl, func(tok string) string {
		name := tokenRe.FindStringSubmatch(tok)[1]
		return values[name]
	})
	return Cleanup(out)
}

// Cleanup removes unresolved placeholders and collapses whitespace and
// repeated line breaks. Removal repeats until no placeholder remains, so
// text that only forms a token after an inner one is removed is gone too.
func Cleanup(s string) string {
	for tokenRe.MatchString(s) {
		s = tokenRe.ReplaceAllString(s, "")
	}
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = breakRunRe.ReplaceAllString(s, lineBreak)
	return s
}

// HasPlaceholders reports whether s still contains token syntax.
func HasPlaceholders(s string) bool {
	return tokenRe.MatchString(s)
}

func fields(d Data) map[string]string {
	p := d.Profile
	return map[string]string{
		"name":           esc(p.Name),
		"email":          esc(p.Email),
		"phone":          esc(p.Phone),
		"location":       esc(p.Location),
		"linkedin":       esc(p.LinkedIn),
		"github":         esc(p.GitHub),
		"portfolio":      esc(p.Portfolio),
		"title":          esc(p.Title),
		"summary":        esc(p.Summary),
		"skills":         esc(strings.Join(nonBlank(p.Skills), ", ")),
		"experience":     joinEntries(slice.Map(p.Experience, func(_ int, e model.Experience) string { return experienceEntry(e) })),
		"education":      joinEntries(slice.Map(p.Education, func(_ int, e model.Education) string { return educationEntry(e) })),
		"projects":       joinEntries(slice.Map(p.Projects, func(_ int, pr model.Project) string { return projectEntry(pr) })),
		"certifications": joinEntries(slice.Map(p.Certifications, func(_ int, c model.Certification) string { return certificationEntry(c) })),
		"ai_resume":      d.AIText,
	}
}

// experienceEntry renders the title, company and duration heading, then the
// description lines.
func experienceEntry(e model.Experience) string {
	head := heading(e.Title, e.Company, e.Duration)
	return withBody(head, e.Description)
}

func projectEntry(p model.Project) string {
	head := heading(p.Title, strings.Join(nonBlank(p.Tech), ", "), p.Duration)
	return withBody(head, p.Description)
}

func educationEntry(e model.Education) string {
	s := heading(e.Degree, e.Institution, e.Year)
	if g := strings.TrimSpace(e.GPA); g != "" {
		s += " | GPA: " + esc(g)
	}
	return s
}

func certificationEntry(c model.Certification) string {
	return heading(c.Name, "", c.Year)
}

func heading(title, org, when string) string {
	var b strings.Builder
	if t := strings.TrimSpace(title); t != "" {
		b.WriteString("<b>" + esc(t) + "</b>")
	}
	if o := strings.TrimSpace(org); o != "" {
		if b.Len() > 0 {
			b.WriteString(" — ")
		}
		b.WriteString(esc(o))
	}
	if w := strings.TrimSpace(when); w != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("(" + esc(w) + ")")
	}
	return b.String()
}

func withBody(head string, lines []string) string {
	body := slice.Map(nonBlank(lines), func(_ int, s string) string { return esc(s) })
	if len(body) == 0 {
		return head
	}
	if head == "" {
		return strings.Join(body, lineBreak)
	}
	return head + lineBreak + strings.Join(body, lineBreak)
}

func joinEntries(entries []string) string {
	return strings.Join(nonBlank(entries), lineBreak)
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func esc(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
