package candidates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	commonerrors "swellyo-workers/internal/common/errors"
	"swellyo-workers/internal/common/logger"
	"swellyo-workers/internal/common/metrics"
	"swellyo-workers/internal/models"
)

const cacheKeyPrefix = "companions:candidates:v1"

// CachedRepository is a read-through Redis cache in front of another Repository.
// Redis failures are logged and the wrapped repository answers instead.
type CachedRepository struct {
	next   Repository
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(next Repository, client redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "candidate-cache"}),
	}
}

func (r *CachedRepository) Source() string { return r.next.Source() }

func cacheKey(q Query) string {
	dest := q.Destination
	if dest == "" {
		dest = "*"
	}
	return fmt.Sprintf("%s:%s:%d", cacheKeyPrefix, dest, q.Limit)
}

func (r *CachedRepository) FindCandidates(ctx context.Context, q Query) ([]models.CandidateProfile, error) {
	q = q.normalized()
	key := cacheKey(q)

	raw, err := r.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []models.CandidateProfile
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			metrics.CandidateCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		}
		r.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"key": key})
		metrics.CandidateCacheLookups.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CandidateCacheLookups.WithLabelValues("miss").Inc()
	default:
		r.logCacheError("candidate cache read failed", key, err)
		metrics.CandidateCacheLookups.WithLabelValues("error").Inc()
	}

	profiles, err := r.next.FindCandidates(ctx, q)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(profiles)
	if err != nil {
		return profiles, nil
	}
	if err := r.redis.Set(ctx, key, string(payload), r.ttl).Err(); err != nil {
		r.logCacheError("candidate cache write failed", key, err)
	}
	return profiles, nil
}

func (r *CachedRepository) logCacheError(msg, key string, err error) {
	stdErr := commonerrors.NewCacheUnavailableError(err)
	r.logger.Warn(msg, map[string]interface{}{
		"key":       key,
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
}
