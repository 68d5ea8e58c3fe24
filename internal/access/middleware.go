package access

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"resumabuilder/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccountLookup loads an account; it returns domain.ErrNotFound when the
// user has no profile row yet.
type AccountLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Account, error)
}

// Claims are the fields read from the auth provider's access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticate validates the Bearer HS256 token, reloads the account's
// plan and stores the resulting Session in the request's user context.
func Authenticate(secret, issuer string, accounts AccountLookup) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		tokenStr := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing Authorization header"})
		}
		claims := &Claims{}
		opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})}
		if issuer != "" {
			opts = append(opts, jwt.WithIssuer(issuer))
		}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			return secretBytes, nil
		}, opts...)
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		uid, err := uuid.Parse(claims.Subject)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token subject"})
		}

		s := Session{UserID: uid, Email: claims.Email, Tier: TierFree}
		acct, err := accounts.FindByID(c.UserContext(), uid)
		switch {
		case err == nil:
			s.Tier = TierFromPlan(acct.Plan)
			s.IsAdmin = acct.IsAdmin
			if s.Email == "" {
				s.Email = acct.Email
			}
		case errors.Is(err, domain.ErrNotFound):
			// signed up with the provider but not provisioned yet
		default:
			slog.Error("session: account lookup failed", "user", uid, "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "account service unavailable"})
		}

		c.SetUserContext(WithSession(c.UserContext(), s))
		return c.Next()
	}
}

// RequireFeature rejects requests whose session tier may not use f.
func RequireFeature(f Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := SessionFrom(c.UserContext())
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not signed in"})
		}
		if !s.Can(f) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "upgrade required", "feature": f})
		}
		return c.Next()
	}
}

// IssueToken signs an access token the way the auth provider does.
func IssueToken(secret string, userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	return TokenSigner{Secret: secret, TTL: ttl}.Sign(userID, email)
}

// TokenSigner issues the tokens Authenticate accepts, for accounts that
// verified their email with us.
type TokenSigner struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

func (s TokenSigner) Sign(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}
