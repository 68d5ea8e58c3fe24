package usecase

import (
	"net/mail"
	"strings"

	"resumabuilder/internal/model"
)

// ValidationResult collects the fields an input is missing.
type ValidationResult struct {
	Valid   bool
	Missing []string
}

// Err returns a ValidationError for the first missing field, or nil.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Field: r.Missing[0]}
}

func requireFields(fields ...[2]string) ValidationResult {
	res := ValidationResult{Valid: true, Missing: []string{}}
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			res.Valid = false
			res.Missing = append(res.Missing, f[0])
		}
	}
	return res
}

// ProfileValidator checks a generation request has something to work from.
func ProfileValidator(p model.Profile) ValidationResult {
	if p.IsEmpty() {
		return ValidationResult{Valid: false, Missing: []string{"profile"}}
	}
	return ValidationResult{Valid: true, Missing: []string{}}
}

// ATSInputValidator checks both texts of an ATS comparison are present.
func ATSInputValidator(resumeText, jobDescription string) ValidationResult {
	return requireFields(
		[2]string{"resume_text", resumeText},
		[2]string{"job_description", jobDescription},
	)
}

func CoverLetterValidator(req CoverLetterRequest) ValidationResult {
	return requireFields(
		[2]string{"job_title", req.JobTitle},
		[2]string{"company", req.Company},
	)
}

// normalizeEmail lowercases and validates an address.
func normalizeEmail(addr string) (string, error) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if addr == "" {
		return "", &ValidationError{Field: "email"}
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return "", invalid("email", "not a valid address")
	}
	return addr, nil
}
