package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"guardian/internal/logger"
)

const defaultRedisPrefix = "places:details:"

// RedisCache shares place details between API replicas. Records are stored
// as JSON under prefix+placeID.
type RedisCache struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(rdb redis.Cmdable, prefix string, ttl time.Duration, l *zap.Logger) *RedisCache {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{rdb: rdb, prefix: prefix, ttl: ttl, logger: logger.OrNop(l)}
}

func (r *RedisCache) Get(ctx context.Context, placeID string) (*PlaceRecord, bool) {
	raw, err := r.rdb.Get(ctx, r.prefix+placeID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("place cache read failed", zap.String("place_id", placeID), zap.Error(err))
		}
		return nil, false
	}
	var rec PlaceRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.logger.Warn("place cache entry corrupt", zap.String("place_id", placeID), zap.Error(err))
		return nil, false
	}
	return &rec, true
}

func (r *RedisCache) Set(ctx context.Context, rec *PlaceRecord) {
	if rec == nil || rec.PlaceID == "" {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		r.logger.Warn("place cache encode failed", zap.String("place_id", rec.PlaceID), zap.Error(err))
		return
	}
	if err := r.rdb.Set(ctx, r.prefix+rec.PlaceID, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("place cache write failed", zap.String("place_id", rec.PlaceID), zap.Error(err))
	}
}
