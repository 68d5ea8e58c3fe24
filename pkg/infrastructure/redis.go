package infrastructure

import (
	"context"
	"fmt"

	"github.com/ecodeclub/ecache"
	eredis "github.com/ecodeclub/ecache/redis"
	"github.com/redis/go-redis/v9"
)

// NewCache connects to redis and wraps it as an ecache.Cache.
func NewCache(ctx context.Context, addr, password string) (ecache.Cache, error) {
	cmd := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := cmd.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return eredis.NewCache(cmd), nil
}
