package repository

import (
	"context"
	"encoding/json"
	"time"

	"resumabuilder/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// UsageRepo appends usage logs and cover letter history.
type UsageRepo struct {
	pool *pgxpool.Pool
}

func NewUsageRepo(pool *pgxpool.Pool) *UsageRepo {
	return &UsageRepo{pool: pool}
}

func (r *UsageRepo) Record(ctx context.Context, userID uuid.UUID, action domain.UsageAction, details map[string]interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	detailsB, err := json.Marshal(details)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO usage_logs (id, user_id, action_type, details, timestamp)
		VALUES ($1,$2,$3,$4,$5)`, uuid.New(), userID, string(action), detailsB, time.Now().UTC())
	return err
}

func (r *UsageRepo) SaveCoverLetter(ctx context.Context, l *domain.CoverLetter) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO cover_letters (id, user_id, job_title, company, content, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`, l.ID, l.UserID, l.JobTitle, l.Company, l.Content, l.CreatedAt)
	return err
}
