package usecase

import (
	"context"
	"sync"

	"resumabuilder/internal/access"
	"resumabuilder/internal/domain"

	"github.com/google/uuid"
)

type fakeUsage struct {
	mu      sync.Mutex
	actions []domain.UsageAction
}

func (f *fakeUsage) Record(_ context.Context, _ uuid.UUID, action domain.UsageAction, _ map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func sessionCtx(tier access.Tier) (context.Context, uuid.UUID) {
	id := uuid.New()
	return access.WithSession(context.Background(), access.Session{UserID: id, Tier: tier}), id
}
