package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"event-fanout/listener/bucketpool/domain"

	"github.com/redis/go-redis/v9"
)

type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal / por bucket.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackBuckets bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackBuckets(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackBuckets = track }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "bucketpool:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Layout das chaves:
//
//	<prefix>:total               hash kind -> contador, live_buckets -> gauge
//	<prefix>:minute:YYYYMMDDhhmm hash kind -> contador (expira em ttl)
//	<prefix>:bucket:<id>         hash allocated/fill (expira em ttl após recuperação)
func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Kind)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.totalKey(), field, 1)
	if ev.Kind == domain.StatsSweep {
		pipe.HSet(ctx, s.totalKey(), "live_buckets", ev.Count)
	}

	if s.bucket == "minute" {
		key := s.minuteKey(at)
		pipe.HIncrBy(ctx, key, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
	}

	if s.trackBuckets && strings.TrimSpace(ev.BucketID) != "" {
		key := s.bucketKey(ev.BucketID)
		switch ev.Kind {
		case domain.StatsAllocated:
			pipe.HIncrBy(ctx, key, "allocated", 1)
			pipe.HSet(ctx, key, "fill", ev.Count)
		case domain.StatsBucketCreated:
			pipe.HSet(ctx, key, "created_at", at.UTC().Format(time.RFC3339))
		case domain.StatsBucketReclaimed:
			pipe.HSet(ctx, key, "reclaimed_at", at.UTC().Format(time.RFC3339))
			if s.ttl > 0 {
				pipe.Expire(ctx, key, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStatsStore) totalKey() string { return s.prefix + ":total" }

func (s *RedisStatsStore) minuteKey(at time.Time) string {
	return fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
}

func (s *RedisStatsStore) bucketKey(id string) string {
	return s.prefix + ":bucket:" + strings.TrimSpace(id)
}
