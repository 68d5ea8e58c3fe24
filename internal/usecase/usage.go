package usecase

import (
	"context"
	"log/slog"

	"resumabuilder/internal/access"
	"resumabuilder/internal/domain"

	"github.com/google/uuid"
)

type UsageRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, action domain.UsageAction, details map[string]interface{}) error
}

// recordUsage logs the action for the session's user. Failures are logged
// and never fail the request.
func recordUsage(ctx context.Context, rec UsageRecorder, action domain.UsageAction, details map[string]interface{}) {
	if rec == nil {
		return
	}
	s, ok := access.SessionFrom(ctx)
	if !ok {
		return
	}
	if err := rec.Record(ctx, s.UserID, action, details); err != nil {
		slog.Warn("usage log failed (non-fatal)", "action", action, "user", s.UserID, "error", err)
	}
}

func sessionUser(ctx context.Context) uuid.UUID {
	if s, ok := access.SessionFrom(ctx); ok {
		return s.UserID
	}
	return uuid.Nil
}

func sessionTier(ctx context.Context) access.Tier {
	if s, ok := access.SessionFrom(ctx); ok {
		return s.Tier
	}
	return access.TierFree
}
