package repository

import (
	"context"
	"encoding/json"

	"resumabuilder/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"golang.org/x/sync/errgroup"
)

const dashboardRecent = 5

// Aggregator assembles a user's dashboard from several tables at once.
type Aggregator struct {
	pool    *pgxpool.Pool
	resumes *ResumesRepo
}

func NewAggregator(pool *pgxpool.Pool, resumes *ResumesRepo) *Aggregator {
	return &Aggregator{pool: pool, resumes: resumes}
}

// queryJSON runs a SQL that returns a single json value and unmarshals it
// into dst.
func queryJSON(ctx context.Context, pool *pgxpool.Pool, dst interface{}, sql string, args ...interface{}) error {
	var raw []byte
	if err := pool.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func (a *Aggregator) Dashboard(ctx context.Context, userID uuid.UUID) (domain.DashboardStats, error) {
	var (
		stats  domain.DashboardStats
		counts map[string]int
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return a.pool.QueryRow(ctx, `SELECT count(*) FROM resumes WHERE user_id = $1`, userID).Scan(&stats.Resumes)
	})
	eg.Go(func() error {
		return a.pool.QueryRow(ctx, `SELECT count(*) FROM cover_letters WHERE user_id = $1`, userID).Scan(&stats.CoverLetters)
	})
	eg.Go(func() error {
		return queryJSON(ctx, a.pool, &counts, `SELECT coalesce(json_object_agg(action_type, n), '{}')
			FROM (SELECT action_type, count(*) AS n FROM usage_logs WHERE user_id = $1 GROUP BY action_type) u`, userID)
	})
	eg.Go(func() error {
		recent, err := a.resumes.ListByUser(ctx, userID, dashboardRecent)
		stats.Recent = recent
		return err
	})
	if err := eg.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}

	stats.Usage = make(map[domain.UsageAction]int, len(domain.UsageActions))
	for _, action := range domain.UsageActions {
		stats.Usage[action] = counts[string(action)]
	}
	return stats, nil
}
