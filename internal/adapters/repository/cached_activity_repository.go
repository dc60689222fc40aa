package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ domain.ActivityRepository = (*CachedActivityRepository)(nil)

const activityCacheTTL = 30 * time.Minute

// CachedActivityRepository keeps each user's activity list in Redis and
// drops it on every write.
type CachedActivityRepository struct {
	next  domain.ActivityRepository
	cache redis.Cmdable
}

func NewCachedActivityRepository(next domain.ActivityRepository, cache redis.Cmdable) *CachedActivityRepository {
	return &CachedActivityRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedActivityRepository) cacheKey(userID string) string {
	return fmt.Sprintf("activities:%s", userID)
}

func (r *CachedActivityRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("[CACHE] failed to invalidate activities")
	}
}

func (r *CachedActivityRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Activity, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var activities []*domain.Activity
		if err := json.Unmarshal([]byte(val), &activities); err == nil {
			return activities, nil
		}

		logrus.WithField("user_id", userID).Warn("[CACHE] corrupted activities, cleaning up key")
		r.cache.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		logrus.WithError(err).Warn("[CACHE] redis read error")
	}

	activities, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(activities); err == nil {
		if setErr := r.cache.Set(ctx, key, data, activityCacheTTL).Err(); setErr != nil {
			logrus.WithError(setErr).Warn("[CACHE] redis set error")
		}
	}

	return activities, nil
}

func (r *CachedActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	if err := r.next.Create(ctx, a); err != nil {
		return err
	}
	r.invalidate(ctx, a.UserID)
	return nil
}

func (r *CachedActivityRepository) Update(ctx context.Context, a *domain.Activity) error {
	if err := r.next.Update(ctx, a); err != nil {
		return err
	}
	r.invalidate(ctx, a.UserID)
	return nil
}

func (r *CachedActivityRepository) Delete(ctx context.Context, id string) error {
	a, err := r.next.GetByID(ctx, id)
	if err == nil && a != nil {
		defer r.invalidate(ctx, a.UserID)
	}

	return r.next.Delete(ctx, id)
}
