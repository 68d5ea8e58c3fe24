package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations creates the builder's tables on startup. Every statement
// is idempotent.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range Migrations() {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// Migrations lists the schema steps in order.
func Migrations() []Migration {
	return []Migration{
		{Name: "create_profiles", Up: execSQL(createProfiles)},
		{Name: "create_resume_templates", Up: execSQL(createResumeTemplates)},
		{Name: "create_resumes", Up: execSQL(createResumes)},
		{Name: "create_cover_letters", Up: execSQL(createCoverLetters)},
		{Name: "create_usage_logs", Up: execSQL(createUsageLogs)},
	}
}

func execSQL(query string) func(ctx context.Context, pool *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, query)
		return err
	}
}

const createProfiles = `
	CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL DEFAULT '',
		plan TEXT NOT NULL DEFAULT 'free',
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_active TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

const createResumeTemplates = `
	CREATE TABLE IF NOT EXISTS resume_templates (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		preview_image TEXT NOT NULL DEFAULT '',
		is_premium BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		category TEXT NOT NULL DEFAULT '',
		created_date TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

const createResumes = `
	CREATE TABLE IF NOT EXISTS resumes (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		title TEXT NOT NULL,
		content JSONB NOT NULL DEFAULT '{}'::jsonb,
		template_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS resumes_user_created_idx ON resumes (user_id, created_at DESC);
`

const createCoverLetters = `
	CREATE TABLE IF NOT EXISTS cover_letters (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		job_title TEXT NOT NULL,
		company TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

const createUsageLogs = `
	CREATE TABLE IF NOT EXISTS usage_logs (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		action_type TEXT NOT NULL,
		details JSONB NOT NULL DEFAULT '{}'::jsonb,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS usage_logs_user_idx ON usage_logs (user_id, action_type);
`
