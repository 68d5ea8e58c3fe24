package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplateNotFound: no active template has the requested id.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrTemplateUnavailable: the template HTML could not be fetched or was
	// empty. No partial preview is produced.
	ErrTemplateUnavailable = errors.New("template unavailable")
	// ErrUpgradeRequired: the session tier does not include the feature.
	ErrUpgradeRequired = errors.New("upgrade required")
	// ErrNoPreview: an export was requested before anything was previewed.
	ErrNoPreview = errors.New("please preview your resume before downloading")
	// ErrGenerationInProgress: the user already has a generation running.
	ErrGenerationInProgress = errors.New("a generation request is already in progress")
	ErrUnauthenticated      = errors.New("no authenticated session")

	ErrCodeNotRequested = errors.New("no verification code was requested for this email")
	ErrCodeInvalid      = errors.New("verification code is invalid")
	ErrCodeExpired      = errors.New("verification code has expired")
	ErrCodeUsed         = errors.New("verification code was already used")
	ErrTooManyAttempts  = errors.New("too many wrong codes, request a new one")
	ErrDelivery         = errors.New("verification email could not be sent")
)

// ValidationError names the input field that was missing or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
