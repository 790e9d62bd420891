package directory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	usersCacheKey       = "directory:users"
	specialistsCacheKey = "directory:specialists"
)

// CachedDirectory caches the listing calls in redis. The original behavior
// re-fetched the full account list from the directory on every request;
// listings here are served from cache within the TTL. Authenticate is never
// cached. Any cache failure falls through to the live directory.
type CachedDirectory struct {
	inner  Directory
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDirectory wraps a Directory with a redis listing cache.
func NewCachedDirectory(inner Directory, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedDirectory {
	return &CachedDirectory{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Authenticate delegates to the live directory.
func (d *CachedDirectory) Authenticate(ctx context.Context, username, password string) (*Profile, error) {
	return d.inner.Authenticate(ctx, username, password)
}

// ListUsers serves the cached account list when fresh.
func (d *CachedDirectory) ListUsers(ctx context.Context) ([]User, error) {
	var cached []User
	if d.fetch(ctx, usersCacheKey, &cached) {
		return cached, nil
	}
	users, err := d.inner.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	d.store(ctx, usersCacheKey, users)
	return users, nil
}

// ListSpecialists serves the cached specialist list when fresh.
func (d *CachedDirectory) ListSpecialists(ctx context.Context) ([]Profile, error) {
	var cached []Profile
	if d.fetch(ctx, specialistsCacheKey, &cached) {
		return cached, nil
	}
	specialists, err := d.inner.ListSpecialists(ctx)
	if err != nil {
		return nil, err
	}
	d.store(ctx, specialistsCacheKey, specialists)
	return specialists, nil
}

func (d *CachedDirectory) fetch(ctx context.Context, key string, dest any) bool {
	if d.client == nil || d.ttl <= 0 {
		return false
	}
	payload, err := d.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			d.logger.Warn("directory cache read failed", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		d.logger.Warn("directory cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (d *CachedDirectory) store(ctx context.Context, key string, value any) {
	if d.client == nil || d.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := d.client.Set(ctx, key, payload, d.ttl).Err(); err != nil {
		d.logger.Warn("directory cache write failed", zap.Error(err))
	}
}
