package analytics

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// RedisSink lands aggregated counts as INCRBY on per-event keys.
type RedisSink struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSink(rdb *redis.Client) *RedisSink {
	return &RedisSink{rdb: rdb, prefix: "analytics:"}
}

func (s *RedisSink) Flush(ctx context.Context, counts map[string]int64) error {
	pipe := s.rdb.Pipeline()
	for event, count := range counts {
		pipe.IncrBy(ctx, s.prefix+event, count)
	}
	_, err := pipe.Exec(ctx)
	return err
}
