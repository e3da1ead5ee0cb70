package infra

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"event-fanout/listener/bucketpool/domain"
)

// AsyncStats desacopla o pool (síncrono, nunca bloqueia) de stores lentos como Redis.
//
// Record só enfileira num channel com capacidade fixa; fila cheia descarta o evento.
// Run consome a fila e grava no store de destino.
type AsyncStats struct {
	next    domain.StatsStore
	queue   chan domain.StatsEvent
	timeout time.Duration
	logger  *slog.Logger

	dropped atomic.Int64
	failed  atomic.Int64
}

type AsyncStatsOption func(*AsyncStats)

func WithRecordTimeout(d time.Duration) AsyncStatsOption {
	return func(a *AsyncStats) { a.timeout = d }
}

func WithAsyncLogger(l *slog.Logger) AsyncStatsOption {
	return func(a *AsyncStats) { a.logger = l }
}

// NewAsyncStats cria a fila com capacidade `size` (mínimo 1).
func NewAsyncStats(next domain.StatsStore, size int, opts ...AsyncStatsOption) *AsyncStats {
	if size < 1 {
		size = 1
	}
	a := &AsyncStats{
		next:    next,
		queue:   make(chan domain.StatsEvent, size),
		timeout: 2 * time.Second,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *AsyncStats) Record(_ context.Context, ev domain.StatsEvent) error {
	select {
	case a.queue <- ev:
	default:
		a.dropped.Add(1)
	}
	return nil
}

// Run grava os eventos enfileirados até ctx encerrar. Bloqueia; rode numa goroutine.
func (a *AsyncStats) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-a.queue:
			a.write(ctx, ev)
		}
	}
}

func (a *AsyncStats) write(ctx context.Context, ev domain.StatsEvent) {
	if a.next == nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err := a.next.Record(wctx, ev); err != nil {
		a.failed.Add(1)
		a.logger.Warn("stats write failed", slog.String("kind", string(ev.Kind)), slog.String("err", err.Error()))
	}
}

func (a *AsyncStats) Dropped() int64 { return a.dropped.Load() }
func (a *AsyncStats) Failed() int64  { return a.failed.Load() }
