package domain

import (
	"time"

	"github.com/google/uuid"
)

// Template is a resume template listed in the template store. The HTML
// itself lives at URL.
type Template struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	PreviewImage string    `json:"preview_image"`
	IsPremium    bool      `json:"is_premium"`
	IsActive     bool      `json:"is_active"`
	Category     string    `json:"category"`
	CreatedDate  time.Time `json:"created_date"`
}
