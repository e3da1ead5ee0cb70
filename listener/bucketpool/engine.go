package bucketpool

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"event-fanout/listener/bucketpool/application"
	"event-fanout/listener/bucketpool/domain"
)

const (
	DefaultBucketCapacity = 20
	DefaultSweepInterval  = 30 * time.Second
)

type Options struct {
	BucketCapacity int
	SweepInterval  time.Duration
	AutoEnrollAll  bool
	Scope          domain.Scope
	EventKind      domain.EventKind

	Resources domain.ResourceProvider
	Liveness  domain.Liveness
	Directory domain.Directory
	Scheduler domain.Scheduler
	Stats     domain.StatsStore
	Logger    *slog.Logger
}

// DefaultOptions devolve as opções padrão, sem as dependências do ambiente.
func DefaultOptions() Options {
	return Options{
		BucketCapacity: DefaultBucketCapacity,
		SweepInterval:  DefaultSweepInterval,
		EventKind:      domain.EventDamage,
	}
}

// Validate verifica a configuração. Qualquer erro aqui é fatal: o motor não sobe.
func (o Options) Validate() error {
	var errs []error
	if o.BucketCapacity < 1 {
		errs = append(errs, fmt.Errorf("%w (got %d)", domain.ErrInvalidCapacity, o.BucketCapacity))
	}
	if o.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w (got %s)", domain.ErrInvalidSweepInterval, o.SweepInterval))
	}
	if o.Resources == nil {
		errs = append(errs, domain.ErrMissingResources)
	}
	if o.Liveness == nil {
		errs = append(errs, domain.ErrMissingLiveness)
	}
	if o.Scheduler == nil {
		errs = append(errs, domain.ErrMissingScheduler)
	}
	if o.AutoEnrollAll && o.Directory == nil {
		errs = append(errs, domain.ErrMissingDirectory)
	}
	return errors.Join(errs...)
}

// Engine é o estado do pool com o sweep já agendado. Vive pelo tempo do processo.
type Engine struct {
	pool     *application.Pool
	logger   *slog.Logger
	enrolled int
}

func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("bucketpool: invalid options: %w", err)
	}
	if opts.EventKind == "" {
		opts.EventKind = domain.EventDamage
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pool, err := application.NewPool(application.PoolConfig{
		Capacity:  opts.BucketCapacity,
		Kind:      opts.EventKind,
		Resources: opts.Resources,
		Liveness:  opts.Liveness,
		Stats:     opts.Stats,
		Logger:    opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("bucketpool: %w", err)
	}

	e := &Engine{pool: pool, logger: opts.Logger}
	opts.Scheduler.SchedulePeriodic(opts.SweepInterval, func() { e.Sweep() })

	if opts.AutoEnrollAll {
		e.enrolled = application.EnrollmentService{
			Directory: opts.Directory,
			Allocator: pool,
		}.Start(opts.Scope)
	}

	opts.Logger.Info("bucket pool ready",
		slog.Int("capacity", opts.BucketCapacity),
		slog.Duration("sweep_interval", opts.SweepInterval),
		slog.Bool("auto_enroll", opts.AutoEnrollAll),
		slog.String("scope", string(opts.Scope)),
		slog.String("event_kind", string(opts.EventKind)),
		slog.Int("enrolled", e.enrolled),
	)
	return e, nil
}

// Allocate inscreve m para receber o fan-out de handlers.
func (e *Engine) Allocate(m domain.Member) { e.pool.Allocate(m) }

// AddHandler registra h em todos os buckets, atuais e futuros.
func (e *Engine) AddHandler(h domain.Handler) { e.pool.AddHandler(h) }

// Sweep roda uma passada do coletor agora, fora do agendamento.
func (e *Engine) Sweep() application.SweepResult { return e.pool.Sweep() }

func (e *Engine) Snapshot() []application.BucketInfo { return e.pool.Snapshot() }
func (e *Engine) Len() int                           { return e.pool.Len() }
func (e *Engine) HandlerCount() int                  { return e.pool.HandlerCount() }
func (e *Engine) Capacity() int                      { return e.pool.Capacity() }

// Enrolled devolve quantas entidades existentes a auto-inscrição alocou na subida.
func (e *Engine) Enrolled() int { return e.enrolled }
