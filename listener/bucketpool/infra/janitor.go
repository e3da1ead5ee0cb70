package infra

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "event-fanout/listener/bucketpool/infra"

// Janitor implementa domain.Scheduler com uma goroutine + ticker por tarefa.
// Cada execução vira um span; sem provider configurado o tracer global é no-op.
// Pare cancelando o contexto.
type Janitor struct {
	ctx    DoneContext
	tracer trace.Tracer
	logger *slog.Logger
}

type JanitorOption func(*Janitor)

func WithTracer(t trace.Tracer) JanitorOption {
	return func(j *Janitor) { j.tracer = t }
}

func WithJanitorLogger(l *slog.Logger) JanitorOption {
	return func(j *Janitor) { j.logger = l }
}

func NewJanitor(ctx DoneContext, opts ...JanitorOption) *Janitor {
	j := &Janitor{
		ctx:    ctx,
		tracer: otel.Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// SchedulePeriodic roda fn a cada `every` até o contexto encerrar.
// every <= 0 não agenda nada.
func (j *Janitor) SchedulePeriodic(every time.Duration, fn func()) {
	if every <= 0 {
		j.logger.Warn("janitor: ignoring non-positive interval", slog.Duration("every", every))
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		var ticks int64
		for {
			select {
			case <-j.ctx.Done():
				return
			case <-t.C:
				ticks++
				j.run(every, ticks, fn)
			}
		}
	}()
}

func (j *Janitor) run(every time.Duration, tick int64, fn func()) {
	_, span := j.tracer.Start(context.Background(), "bucketpool.janitor.tick",
		trace.WithAttributes(
			attribute.String("janitor.interval", every.String()),
			attribute.Int64("janitor.tick", tick),
		),
	)
	defer span.End()
	fn()
}

// DoneContext é o subconjunto de context.Context que o Janitor usa.
type DoneContext interface {
	Done() <-chan struct{}
}
