package repository

import (
	"context"
	"errors"

	"resumabuilder/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type AccountsRepo struct {
	pool *pgxpool.Pool
}

func NewAccountsRepo(pool *pgxpool.Pool) *AccountsRepo {
	return &AccountsRepo{pool: pool}
}

const accountColumns = `id, email, full_name, plan, is_admin, verified, created_date, last_active`

// FindByID loads the account and bumps its last_active stamp.
func (r *AccountsRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx, `UPDATE profiles SET last_active = now()
		WHERE id = $1 RETURNING `+accountColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, err
}

// UpsertVerified creates a free account for a newly verified email, or
// marks the existing one verified. The plan of an existing account is
// never touched.
func (r *AccountsRepo) UpsertVerified(ctx context.Context, email, fullName string) (domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `INSERT INTO profiles (id, email, full_name, plan, verified)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (email) DO UPDATE SET verified = TRUE,
			full_name = CASE WHEN EXCLUDED.full_name <> '' THEN EXCLUDED.full_name ELSE profiles.full_name END,
			last_active = now()
		RETURNING `+accountColumns,
		uuid.New(), email, fullName, string(domain.PlanFree)))
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		a    domain.Account
		plan string
	)
	if err := row.Scan(&a.ID, &a.Email, &a.FullName, &plan, &a.IsAdmin, &a.Verified, &a.CreatedDate, &a.LastActive); err != nil {
		return domain.Account{}, err
	}
	a.Plan = domain.Plan(plan)
	return a, nil
}
