package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/acadrec/acadrec-backend/internal/config"
)

// invalidateStudentCache drops every cached read-side snapshot for a
// student. Called after any grade, SPI or CPI write; the cache TTL is
// only a backstop against missed invalidations.
func invalidateStudentCache(ctx context.Context, rdb *redis.Client, log zerolog.Logger, rollNo int) {
	if rdb == nil {
		return
	}
	pattern := config.CacheKey.StudentCachePattern(rollNo)

	iter := rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("Cache invalidation failed")
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Int("roll_no", rollNo).Msg("Cache scan failed")
	}
}
