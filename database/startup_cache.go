package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masood0319/Startups-platform/compliance"
	"github.com/Masood0319/Startups-platform/models"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startupCachePrefix = "startup:profile:"

// CachedStartups serves startup lookups from Redis, falling back to the
// wrapped finder. Redis failures never fail the lookup.
type CachedStartups struct {
	next compliance.StartupFinder
	rdb  *redis.Client
	ttl  time.Duration
	log  *zap.Logger
}

// NewCachedStartups wraps next with a Redis read-through cache. A nil client disables caching.
func NewCachedStartups(next compliance.StartupFinder, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedStartups {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedStartups{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (c *CachedStartups) FindStartup(ctx context.Context, id string) (*models.Startup, error) {
	if c.rdb == nil {
		return c.next.FindStartup(ctx, id)
	}
	key := startupCachePrefix + id
	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var st models.Startup
		if err := json.Unmarshal(raw, &st); err == nil {
			return &st, nil
		}
	} else if err != redis.Nil {
		c.log.Debug("startup cache read failed", zap.String("startup_id", id), zap.Error(err))
	}

	st, err := c.next.FindStartup(ctx, id)
	if err != nil {
		return nil, err
	}
	c.put(ctx, st)
	return st, nil
}

func (c *CachedStartups) put(ctx context.Context, st *models.Startup) {
	raw, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, startupCachePrefix+st.ID, raw, c.ttl).Err(); err != nil {
		c.log.Debug("startup cache write failed", zap.String("startup_id", st.ID), zap.Error(err))
	}
}

// Fresh returns a finder that always reads the wrapped finder and refreshes
// the cached entry with what it found. A missing startup is evicted.
func (c *CachedStartups) Fresh() compliance.StartupFinder {
	return freshStartups{c}
}

type freshStartups struct{ c *CachedStartups }

func (f freshStartups) FindStartup(ctx context.Context, id string) (*models.Startup, error) {
	st, err := f.c.next.FindStartup(ctx, id)
	if f.c.rdb == nil {
		return st, err
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if derr := f.c.Invalidate(ctx, id); derr != nil {
				f.c.log.Debug("startup cache evict failed", zap.String("startup_id", id), zap.Error(derr))
			}
		}
		return nil, err
	}
	f.c.put(ctx, st)
	return st, nil
}

// Invalidate drops a cached startup profile.
func (c *CachedStartups) Invalidate(ctx context.Context, id string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, startupCachePrefix+id).Err()
}
