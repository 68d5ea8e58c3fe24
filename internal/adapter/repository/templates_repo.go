package repository

import (
	"context"
	"errors"

	"resumabuilder/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type TemplatesRepo struct {
	pool *pgxpool.Pool
}

func NewTemplatesRepo(pool *pgxpool.Pool) *TemplatesRepo {
	return &TemplatesRepo{pool: pool}
}

const templateColumns = `id, name, description, url, preview_image, is_premium, is_active, category, created_date`

func (r *TemplatesRepo) ListActive(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+templateColumns+` FROM resume_templates
		WHERE is_active ORDER BY is_premium, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TemplatesRepo) FindActive(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	t, err := scanTemplate(r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM resume_templates
		WHERE id = $1 AND is_active`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Template{}, domain.ErrNotFound
	}
	return t, err
}

func scanTemplate(row pgx.Row) (domain.Template, error) {
	var t domain.Template
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.URL, &t.PreviewImage, &t.IsPremium, &t.IsActive, &t.Category, &t.CreatedDate)
	return t, err
}
