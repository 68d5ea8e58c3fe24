package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"resumabuilder/internal/domain"
	"resumabuilder/internal/email"
)

const (
	CodeLength = 6
	CodeTTL    = 10 * time.Minute

	// MaxAttempts is how many wrong codes burn the pending record.
	MaxAttempts = 5
)

// OTPStore keeps the pending code per email. Load returns
// domain.ErrNotFound when nothing was requested.
type OTPStore interface {
	Save(ctx context.Context, rec domain.OTPRecord) error
	Load(ctx context.Context, email string) (domain.OTPRecord, error)
}

type AccountProvisioner interface {
	UpsertVerified(ctx context.Context, email, fullName string) (domain.Account, error)
}

type Signup struct {
	store    OTPStore
	mailer   email.Service
	accounts AccountProvisioner
	from     string

	// mu serializes Verify so concurrent guesses cannot share one
	// attempt count.
	mu sync.Mutex

	now     func() time.Time
	newCode func() (string, error)
}

func NewSignup(store OTPStore, mailer email.Service, accounts AccountProvisioner, from string) *Signup {
	return &Signup{
		store:    store,
		mailer:   mailer,
		accounts: accounts,
		from:     from,
		now:      time.Now,
		newCode:  generateCode,
	}
}

// SendCode issues a fresh code for addr, replacing any earlier one, and
// mails it.
func (s *Signup) SendCode(ctx context.Context, addr string) error {
	addr, err := normalizeEmail(addr)
	if err != nil {
		return err
	}
	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	now := s.now()
	rec := domain.OTPRecord{
		Email:     addr,
		Code:      code,
		ExpiresAt: now.Add(CodeTTL),
		CreatedAt: now,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	err = s.mailer.SendMail(ctx, email.Mail{
		From:    s.from,
		To:      addr,
		Subject: "Your verification code",
		Body:    []byte(codeMailBody(code)),
	})
	if err != nil {
		slog.Error("send verification code failed", "email", addr, "error", err)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	slog.Info("verification code sent", "email", addr)
	return nil
}

// Verify checks code for addr. A wrong code is reported as invalid even
// after expiry; only the right code past its expiry is reported as
// expired. After MaxAttempts wrong codes the record is burned and every
// further call fails with ErrTooManyAttempts until a new code is sent.
func (s *Signup) Verify(ctx context.Context, addr, code, fullName string) (domain.Account, error) {
	addr, err := normalizeEmail(addr)
	if err != nil {
		return domain.Account{}, err
	}
	if code == "" {
		return domain.Account{}, &ValidationError{Field: "otp"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Load(ctx, addr)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Account{}, ErrCodeNotRequested
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("load code: %w", err)
	}
	if rec.Verified {
		return domain.Account{}, ErrCodeUsed
	}
	if rec.Attempts >= MaxAttempts {
		return domain.Account{}, ErrTooManyAttempts
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		return domain.Account{}, s.recordMiss(ctx, rec)
	}
	if s.now().After(rec.ExpiresAt) {
		return domain.Account{}, ErrCodeExpired
	}

	// The code stays usable until the account exists.
	acct, err := s.accounts.UpsertVerified(ctx, addr, fullName)
	if err != nil {
		return domain.Account{}, fmt.Errorf("provision account: %w", err)
	}
	rec.Verified = true
	if err := s.store.Save(ctx, rec); err != nil {
		return domain.Account{}, fmt.Errorf("mark code verified: %w", err)
	}
	slog.Info("email verified", "email", addr, "account", acct.ID)
	return acct, nil
}

func (s *Signup) recordMiss(ctx context.Context, rec domain.OTPRecord) error {
	rec.Attempts++
	if err := s.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("count attempt: %w", err)
	}
	if rec.Attempts >= MaxAttempts {
		slog.Warn("verification code burned", "email", rec.Email, "attempts", rec.Attempts)
		return ErrTooManyAttempts
	}
	return ErrCodeInvalid
}

func generateCode() (string, error) {
	digits := make([]byte, CodeLength)
	ten := big.NewInt(10)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

func codeMailBody(code string) string {
	return fmt.Sprintf(`<p>Your verification code is <b>%s</b>.</p>
<p>It expires in %d minutes. If you did not request it, ignore this email.</p>`, code, int(CodeTTL.Minutes()))
}
