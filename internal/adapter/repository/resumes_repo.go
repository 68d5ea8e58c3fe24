package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resumabuilder/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type ResumesRepo struct {
	pool *pgxpool.Pool
}

func NewResumesRepo(pool *pgxpool.Pool) *ResumesRepo {
	return &ResumesRepo{pool: pool}
}

const resumeColumns = `id, user_id, title, content, template_id, created_at, updated_at`

// Save inserts the resume or replaces the stored row with the same id.
func (r *ResumesRepo) Save(ctx context.Context, res *domain.SavedResume) error {
	content, err := json.Marshal(res.Content)
	if err != nil {
		return fmt.Errorf("encode resume content: %w", err)
	}
	var templateID uuid.NullUUID
	if res.TemplateID != nil {
		templateID = uuid.NullUUID{UUID: *res.TemplateID, Valid: true}
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO resumes (`+resumeColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, content = EXCLUDED.content, template_id = EXCLUDED.template_id, updated_at = EXCLUDED.updated_at
		WHERE resumes.user_id = EXCLUDED.user_id`,
		res.ID, res.UserID, res.Title, content, templateID, res.CreatedAt, res.UpdatedAt)
	return err
}

func (r *ResumesRepo) Get(ctx context.Context, userID, id uuid.UUID) (domain.SavedResume, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	res, err := scanResume(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SavedResume{}, domain.ErrNotFound
	}
	return res, err
}

func (r *ResumesRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.SavedResume, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+resumeColumns+` FROM resumes
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.SavedResume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ResumesRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanResume(row pgx.Row) (domain.SavedResume, error) {
	var (
		res        domain.SavedResume
		content    []byte
		templateID uuid.NullUUID
	)
	if err := row.Scan(&res.ID, &res.UserID, &res.Title, &content, &templateID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return domain.SavedResume{}, err
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &res.Content); err != nil {
			return domain.SavedResume{}, fmt.Errorf("decode resume %s: %w", res.ID, err)
		}
	}
	res.Content.Normalize()
	if templateID.Valid {
		id := templateID.UUID
		res.TemplateID = &id
	}
	return res, nil
}
