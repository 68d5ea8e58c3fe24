package cache

import (
	"context"
	"encoding/json"
	"time"

	"resumabuilder/internal/domain"

	"github.com/ecodeclub/ecache"
	"github.com/pkg/errors"
)

// OTPCache keeps pending verification codes. Entries outlive the code's
// own expiry so a late attempt can still be told apart from a code that
// was never requested.
type OTPCache struct {
	cache      ecache.Cache
	expiration time.Duration
}

func NewOTPCache(c ecache.Cache) *OTPCache {
	return &OTPCache{
		cache: &ecache.NamespaceCache{
			Namespace: "otp:",
			C:         c,
		},
		expiration: 24 * time.Hour,
	}
}

func (o *OTPCache) Save(ctx context.Context, rec domain.OTPRecord) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode otp record")
	}
	return errors.Wrap(o.cache.Set(ctx, rec.Email, string(val), o.expiration), "store otp record")
}

func (o *OTPCache) Load(ctx context.Context, email string) (domain.OTPRecord, error) {
	val := o.cache.Get(ctx, email)
	if val.KeyNotFound() {
		return domain.OTPRecord{}, domain.ErrNotFound
	}
	if val.Err != nil {
		return domain.OTPRecord{}, errors.Wrap(val.Err, "load otp record")
	}
	raw, err := val.String()
	if err != nil {
		return domain.OTPRecord{}, errors.Wrap(err, "load otp record")
	}
	var rec domain.OTPRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.OTPRecord{}, errors.Wrap(err, "decode otp record")
	}
	return rec, nil
}
