package infra

import (
	"context"
	"sync"

	"event-fanout/listener/bucketpool/domain"
)

type Counters struct {
	Allocated        int64
	BucketsCreated   int64
	BucketsReclaimed int64
	Sweeps           int64
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes, para o simulador e para desenvolvimento.
//
// Não faz expiração e não é indicada para produção com muitos buckets rastreados.
type MemoryStatsStore struct {
	mu        sync.Mutex
	total     Counters
	lastLive  int
	byBucket  map[string]int64
	reclaimed map[string]bool

	trackBuckets bool
}

type MemoryStatsOption func(*MemoryStatsStore)

// WithTrackBuckets guarda alocações por bucket (cardinalidade = número de buckets já criados).
func WithTrackBuckets(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackBuckets = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byBucket:  make(map[string]int64),
		reclaimed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case domain.StatsAllocated:
		s.total.Allocated++
		if s.trackBuckets {
			s.byBucket[ev.BucketID]++
		}
	case domain.StatsBucketCreated:
		s.total.BucketsCreated++
	case domain.StatsBucketReclaimed:
		s.total.BucketsReclaimed++
		if s.trackBuckets {
			s.reclaimed[ev.BucketID] = true
		}
	case domain.StatsSweep:
		s.total.Sweeps++
		s.lastLive = ev.Count
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// LiveAfterLastSweep devolve o número de buckets vivos no fim do último sweep.
func (s *MemoryStatsStore) LiveAfterLastSweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastLive
}

// ByBucket devolve alocações por bucket ainda não recuperado (só com WithTrackBuckets).
func (s *MemoryStatsStore) ByBucket() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.byBucket))
	for k, v := range s.byBucket {
		if !s.reclaimed[k] {
			out[k] = v
		}
	}
	return out
}
