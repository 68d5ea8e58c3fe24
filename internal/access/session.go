package access

import (
	"context"

	"github.com/google/uuid"
)

// Session is the authenticated caller. Its Tier is loaded fresh for every
// request and is the only tier any gate consults.
type Session struct {
	UserID  uuid.UUID
	Email   string
	Tier    Tier
	IsAdmin bool
}

func (s Session) Can(f Feature) bool {
	return CanAccess(f, s.Tier)
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored by the auth middleware.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
