package infra

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-fanout/listener/bucketpool/domain"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStatsStore_CountsByKind(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackBuckets(true))
	ctx := context.Background()

	_ = s.Record(ctx, domain.StatsEvent{Kind: domain.StatsBucketCreated, BucketID: "b0"})
	_ = s.Record(ctx, domain.StatsEvent{Kind: domain.StatsAllocated, BucketID: "b0", Member: 1})
	_ = s.Record(ctx, domain.StatsEvent{Kind: domain.StatsAllocated, BucketID: "b0", Member: 2})
	_ = s.Record(ctx, domain.StatsEvent{Kind: domain.StatsBucketCreated, BucketID: "b1"})
	_ = s.Record(ctx, domain.StatsEvent{Kind: domain.StatsAllocated, BucketID: "b1", Member: 3})
	_ = s.Record(ctx, domain.StatsEvent{Kind: domain.StatsBucketReclaimed, BucketID: "b0"})
	_ = s.Record(ctx, domain.StatsEvent{Kind: domain.StatsSweep, Count: 1})

	assert.Equal(t, Counters{Allocated: 3, BucketsCreated: 2, BucketsReclaimed: 1, Sweeps: 1}, s.Total())
	assert.Equal(t, 1, s.LiveAfterLastSweep())
	assert.Equal(t, map[string]int64{"b1": 1}, s.ByBucket())
}

func TestMemoryStatsStore_NoBucketTrackingByDefault(t *testing.T) {
	s := NewMemoryStatsStore()
	_ = s.Record(context.Background(), domain.StatsEvent{Kind: domain.StatsAllocated, BucketID: "b0"})
	assert.Empty(t, s.ByBucket())
}

func TestRedisStatsStore_NilClientIsNoop(t *testing.T) {
	var s *RedisStatsStore
	require.NoError(t, s.Record(context.Background(), domain.StatsEvent{Kind: domain.StatsSweep}))
	require.NoError(t, NewRedisStatsStore(nil).Record(context.Background(), domain.StatsEvent{Kind: domain.StatsSweep}))
}

func TestRedisStatsStore_KeyLayout(t *testing.T) {
	s := NewRedisStatsStore(nil, WithStatsPrefix(":pool:stats:"))
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	assert.Equal(t, "pool:stats:total", s.totalKey())
	assert.Equal(t, "pool:stats:minute:202603040506", s.minuteKey(at))
	assert.Equal(t, "pool:stats:bucket:abc", s.bucketKey(" abc "))
}

func TestRedisStatsStore_OptionsNormalise(t *testing.T) {
	s := NewRedisStatsStore(nil, WithStatsBucket(" NONE "), WithStatsTTL(time.Minute), WithStatsTrackBuckets(true))
	assert.Equal(t, "none", s.bucket)
	assert.Equal(t, time.Minute, s.ttl)
	assert.True(t, s.trackBuckets)
}

func TestRedisStatsStore_ReportsUnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer func() { _ = rdb.Close() }()

	err := NewRedisStatsStore(rdb).Record(context.Background(), domain.StatsEvent{Kind: domain.StatsAllocated, BucketID: "b0"})
	assert.Error(t, err)
}

type blockingStats struct {
	got chan domain.StatsEvent
	err error
}

func (b *blockingStats) Record(_ context.Context, ev domain.StatsEvent) error {
	b.got <- ev
	return b.err
}

func TestAsyncStats_ForwardsToNextStore(t *testing.T) {
	next := &blockingStats{got: make(chan domain.StatsEvent, 1)}
	a := NewAsyncStats(next, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	require.NoError(t, a.Record(ctx, domain.StatsEvent{Kind: domain.StatsSweep, Count: 3}))

	select {
	case ev := <-next.got:
		assert.Equal(t, 3, ev.Count)
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting forwarded event")
	}
}

func TestAsyncStats_DropsWhenQueueFull(t *testing.T) {
	a := NewAsyncStats(NewMemoryStatsStore(), 1)

	// sem Run: a fila enche no primeiro evento
	_ = a.Record(context.Background(), domain.StatsEvent{Kind: domain.StatsAllocated})
	_ = a.Record(context.Background(), domain.StatsEvent{Kind: domain.StatsAllocated})
	_ = a.Record(context.Background(), domain.StatsEvent{Kind: domain.StatsAllocated})

	assert.Equal(t, int64(2), a.Dropped())
}

func TestAsyncStats_CountsFailures(t *testing.T) {
	next := &blockingStats{got: make(chan domain.StatsEvent, 1), err: errors.New("down")}
	a := NewAsyncStats(next, 1)

	a.write(context.Background(), domain.StatsEvent{Kind: domain.StatsSweep})

	assert.Equal(t, int64(1), a.Failed())
}
