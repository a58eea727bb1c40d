package utils

import (
	"context"
	"time"

	"github.com/Masood0319/Startups-platform/config"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient is an optional shared client used for token revocation and the
// startup profile cache. It stays nil when REDIS_ADDR is not configured.
var RedisClient *redis.Client

// InitRedis connects to Redis when configured. A failed ping leaves RedisClient
// nil; revocation then falls back to the database and the cache is bypassed.
func InitRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	rc := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		Logger.Warn("redis ping failed", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = rc.Close()
		return nil
	}
	RedisClient = rc
	return rc
}
