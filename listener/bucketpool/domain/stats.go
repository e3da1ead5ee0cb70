package domain

import (
	"context"
	"time"
)

type StatsKind string

const (
	StatsAllocated       StatsKind = "allocated"
	StatsBucketCreated   StatsKind = "bucket_created"
	StatsBucketReclaimed StatsKind = "bucket_reclaimed"
	StatsSweep           StatsKind = "sweep"
)

// StatsEvent representa algo que aconteceu no pool.
//
// Count é o valor associado ao evento: número de buckets vivos após um sweep, ocupação do
// bucket na alocação, etc.
type StatsEvent struct {
	Kind     StatsKind
	BucketID string
	Member   Member
	Count    int

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas do pool.
//
// Implementações podem armazenar em Redis, memória, etc.
// O pool trata erro como best-effort (nunca interrompe uma operação).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
