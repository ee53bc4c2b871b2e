package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	rdb "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/platform/logging"
)

const defaultKeyPrefix = "carelink:profile:"

// Client is the subset of go-redis used by the profile cache.
type Client interface {
	Get(ctx context.Context, key string) *rdb.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *rdb.StatusCmd
	Del(ctx context.Context, keys ...string) *rdb.IntCmd
}

// ProfileRepository shares profile reads across API replicas. Redis failures
// are logged and the read falls through to next.
type ProfileRepository struct {
	next   profile.Repository
	client Client
	prefix string
	ttl    time.Duration
	logger *logging.Logger
}

func NewProfileRepository(next profile.Repository, client Client, prefix string, ttl time.Duration, logger *logging.Logger) *ProfileRepository {
	if logger == nil {
		logger = logging.Default()
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &ProfileRepository{
		next:   next,
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (profile.Profile, bool, error) {
	key := r.key(userID)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached profile.Profile
		decodeErr := sonic.Unmarshal(raw, &cached)
		if decodeErr == nil {
			return cached, true, nil
		}
		r.logger.WarnContext(ctx, "drop undecodable cached profile", "key", key, "error", decodeErr)
		_ = r.client.Del(ctx, key).Err()
	case !errors.Is(err, rdb.Nil):
		r.logger.WarnContext(ctx, "redis profile read failed", "key", key, "error", err)
	}

	item, exists, err := r.next.GetByUserID(ctx, userID)
	if err != nil || !exists {
		return item, exists, err
	}

	encoded, err := sonic.Marshal(item)
	if err != nil {
		r.logger.WarnContext(ctx, "encode profile for redis failed", "key", key, "error", err)
		return item, true, nil
	}
	if err := r.client.Set(ctx, key, encoded, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "redis profile write failed", "key", key, "error", err)
	}
	return item, true, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, item profile.Profile) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	if err := r.client.Del(ctx, r.key(item.UserID)).Err(); err != nil {
		r.logger.WarnContext(ctx, "redis profile invalidation failed", "user_id", item.UserID, "error", err)
	}
	return nil
}

func (r *ProfileRepository) ListCompletedByRole(ctx context.Context, role profile.Role) ([]profile.Profile, error) {
	return r.next.ListCompletedByRole(ctx, role)
}

func (r *ProfileRepository) ListInconsistent(ctx context.Context) ([]profile.Profile, error) {
	return r.next.ListInconsistent(ctx)
}

func (r *ProfileRepository) key(userID string) string {
	return r.prefix + strings.TrimSpace(userID)
}
