package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan is the subscription tier stored on an account.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPaid Plan = "paid"
)

type Account struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Plan        Plan      `json:"plan"`
	IsAdmin     bool      `json:"is_admin"`
	Verified    bool      `json:"verified"`
	CreatedDate time.Time `json:"created_date"`
	LastActive  time.Time `json:"last_active"`
}

// OTPRecord is the pending verification for one email address.
type OTPRecord struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}
