package domain

import (
	"time"

	"github.com/google/uuid"
)

type UsageAction string

const (
	ActionResumeGenerated      UsageAction = "resume_generated"
	ActionCoverLetterGenerated UsageAction = "cover_letter_generated"
	ActionATSCheck             UsageAction = "ats_check"
	ActionPDFExport            UsageAction = "pdf_export"
)

// UsageActions lists every action in the order dashboards show them.
var UsageActions = []UsageAction{
	ActionResumeGenerated,
	ActionCoverLetterGenerated,
	ActionATSCheck,
	ActionPDFExport,
}

type UsageLog struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	Action    UsageAction            `json:"action_type"`
	Details   map[string]interface{} `json:"details"`
	Timestamp time.Time              `json:"timestamp"`
}

// DashboardStats summarizes one user's activity.
type DashboardStats struct {
	Resumes      int                 `json:"resumes"`
	CoverLetters int                 `json:"cover_letters"`
	Usage        map[UsageAction]int `json:"usage"`
	Recent       []SavedResume       `json:"recent"`
}
