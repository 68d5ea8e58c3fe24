package usecase

import (
	"context"
	"strings"
	"time"

	"resumabuilder/internal/domain"
	"resumabuilder/internal/model"

	"github.com/google/uuid"
)

type ResumeStore interface {
	// ListByUser returns the user's resumes, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.SavedResume, error)
	Get(ctx context.Context, userID, id uuid.UUID) (domain.SavedResume, error)
	Save(ctx context.Context, r *domain.SavedResume) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type DashboardSource interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (domain.DashboardStats, error)
}

type ResumeInput struct {
	Title      string        `json:"title"`
	Content    model.Profile `json:"content"`
	TemplateID *uuid.UUID    `json:"template_id"`
}

// Resumes manages a user's saved resumes. Every call is scoped to the
// session's user.
type Resumes struct {
	store     ResumeStore
	dashboard DashboardSource
	now       func() time.Time
}

func NewResumes(store ResumeStore, dashboard DashboardSource) *Resumes {
	return &Resumes{store: store, dashboard: dashboard, now: time.Now}
}

const listLimit = 100

func (r *Resumes) List(ctx context.Context) ([]domain.SavedResume, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return r.store.ListByUser(ctx, uid, listLimit)
}

func (r *Resumes) Create(ctx context.Context, in ResumeInput) (domain.SavedResume, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return domain.SavedResume{}, err
	}
	now := r.now().UTC()
	res := domain.SavedResume{
		ID:         uuid.New(),
		UserID:     uid,
		Title:      resumeTitle(in),
		Content:    in.Content,
		TemplateID: in.TemplateID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	res.Content.Normalize()
	if err := r.store.Save(ctx, &res); err != nil {
		return domain.SavedResume{}, err
	}
	return res, nil
}

// Update replaces the content of an existing resume. Unknown ids and
// resumes owned by someone else are domain.ErrNotFound.
func (r *Resumes) Update(ctx context.Context, id uuid.UUID, in ResumeInput) (domain.SavedResume, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return domain.SavedResume{}, err
	}
	res, err := r.store.Get(ctx, uid, id)
	if err != nil {
		return domain.SavedResume{}, err
	}
	res.Title = resumeTitle(in)
	res.Content = in.Content
	res.Content.Normalize()
	res.TemplateID = in.TemplateID
	res.UpdatedAt = r.now().UTC()
	if err := r.store.Save(ctx, &res); err != nil {
		return domain.SavedResume{}, err
	}
	return res, nil
}

func (r *Resumes) Delete(ctx context.Context, id uuid.UUID) error {
	uid, err := requireUser(ctx)
	if err != nil {
		return err
	}
	return r.store.Delete(ctx, uid, id)
}

func (r *Resumes) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	uid, err := requireUser(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	return r.dashboard.Dashboard(ctx, uid)
}

func requireUser(ctx context.Context) (uuid.UUID, error) {
	uid := sessionUser(ctx)
	if uid == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return uid, nil
}

func resumeTitle(in ResumeInput) string {
	if t := strings.TrimSpace(in.Title); t != "" {
		return t
	}
	if n := strings.TrimSpace(in.Content.Name); n != "" {
		return n + " resume"
	}
	return "Untitled resume"
}
