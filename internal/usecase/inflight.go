package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// InFlight admits at most one running request per user.
type InFlight struct {
	mu      sync.Mutex
	running map[uuid.UUID]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{running: map[uuid.UUID]struct{}{}}
}

// Acquire marks id busy. It returns a release func, or false if id is
// already busy.
func (f *InFlight) Acquire(id uuid.UUID) (func(), bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.running[id]; busy {
		return nil, false
	}
	f.running[id] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.running, id)
		f.mu.Unlock()
	}, true
}
