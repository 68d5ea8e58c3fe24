package domain

import (
	"time"

	"resumabuilder/internal/model"

	"github.com/google/uuid"
)

// SavedResume is a resume a user stored from the builder.
type SavedResume struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	Title      string        `json:"title"`
	Content    model.Profile `json:"content"`
	TemplateID *uuid.UUID    `json:"template_id,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// CoverLetter is a generated letter kept in the user's history.
type CoverLetter struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	JobTitle  string    `json:"job_title"`
	Company   string    `json:"company"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
