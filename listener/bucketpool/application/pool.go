package application

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"event-fanout/listener/bucketpool/domain"

	"github.com/google/uuid"
)

// Allocator é o ponto de entrada usado por quem inscreve membros (ex: auto-inscrição).
type Allocator interface {
	Allocate(domain.Member)
}

// PoolConfig reúne as dependências do Pool.
type PoolConfig struct {
	Capacity  int
	Kind      domain.EventKind
	Resources domain.ResourceProvider
	Liveness  domain.Liveness
	Stats     domain.StatsStore
	Logger    *slog.Logger
}

// Pool concentra o estado compartilhado: os buckets, o índice do bucket corrente e a
// sequência ordenada de handlers.
//
// O host Go é multi-thread, então todo acesso ao estado passa por mu. Allocate, AddHandler
// e Sweep nunca se intercalam.
//
// Índices de bucket NÃO são estáveis: um sweep move buckets de posição (swap com o último).
type Pool struct {
	mu sync.Mutex

	capacity  int
	kind      domain.EventKind
	resources domain.ResourceProvider
	liveness  domain.Liveness
	stats     domain.StatsStore
	logger    *slog.Logger

	now   func() time.Time
	newID func() string

	buckets  []*Bucket
	current  int
	handlers []domain.Handler
}

func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.Capacity < 1 {
		return nil, domain.ErrInvalidCapacity
	}
	if cfg.Resources == nil {
		return nil, domain.ErrMissingResources
	}
	if cfg.Liveness == nil {
		return nil, domain.ErrMissingLiveness
	}
	if cfg.Kind == "" {
		cfg.Kind = domain.EventDamage
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Pool{
		capacity:  cfg.Capacity,
		kind:      cfg.Kind,
		resources: cfg.Resources,
		liveness:  cfg.Liveness,
		stats:     cfg.Stats,
		logger:    cfg.Logger,
		now:       time.Now,
		newID:     uuid.NewString,
		current:   -1,
	}, nil
}

// Allocate inscreve m no bucket corrente. Se não houver bucket corrente com vaga, cria um
// novo bucket (com todos os handlers já anexados) e o torna corrente.
//
// Alocação é só append: um bucket parcialmente morto nunca é reaproveitado.
func (p *Pool) Allocate(m domain.Member) {
	p.mu.Lock()
	b, created := p.fillableLocked()
	b.add(m)
	p.resources.RegisterMember(b.resource, m, p.kind)
	id, fill, live := b.id, b.Fill(), len(p.buckets)
	p.mu.Unlock()

	if created {
		p.logger.Debug("bucket created", slog.String("bucket", id), slog.Int("live", live))
		p.record(domain.StatsEvent{Kind: domain.StatsBucketCreated, BucketID: id, Count: live})
	}
	p.record(domain.StatsEvent{Kind: domain.StatsAllocated, BucketID: id, Member: m, Count: fill})
}

func (p *Pool) fillableLocked() (*Bucket, bool) {
	if p.current >= 0 && !p.buckets[p.current].Full() {
		return p.buckets[p.current], false
	}

	b := newBucket(p.newID(), p.capacity, p.resources.Create())
	for _, h := range p.handlers {
		p.resources.AttachHandler(b.resource, h)
	}
	p.buckets = append(p.buckets, b)
	p.current = len(p.buckets) - 1
	return b, true
}

// AddHandler registra h no fim da sequência e o anexa imediatamente a todos os buckets
// vivos, correntes ou não. Buckets criados depois recebem h na criação.
//
// Não existe remoção de handler.
func (p *Pool) AddHandler(h domain.Handler) {
	if h == nil {
		p.logger.Warn("ignoring nil handler")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.handlers = append(p.handlers, h)
	for _, b := range p.buckets {
		p.resources.AttachHandler(b.resource, h)
	}
}

// BucketInfo é uma foto de um bucket em um instante.
type BucketInfo struct {
	Index    int
	ID       string
	Fill     int
	Capacity int
	Current  bool
	Members  []domain.Member
}

// Snapshot devolve o estado dos buckets vivos. Os índices valem só até o próximo sweep.
func (p *Pool) Snapshot() []BucketInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]BucketInfo, 0, len(p.buckets))
	for i, b := range p.buckets {
		out = append(out, BucketInfo{
			Index:    i,
			ID:       b.id,
			Fill:     b.Fill(),
			Capacity: b.capacity,
			Current:  i == p.current,
			Members:  b.Members(),
		})
	}
	return out
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets)
}

// CurrentID devolve o id do bucket corrente, ou "" se o pool ainda não tem buckets.
func (p *Pool) CurrentID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current < 0 {
		return ""
	}
	return p.buckets[p.current].id
}

func (p *Pool) HandlerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

func (p *Pool) Capacity() int { return p.capacity }

func (p *Pool) record(ev domain.StatsEvent) {
	if p.stats == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = p.now()
	}
	if err := p.stats.Record(context.Background(), ev); err != nil {
		p.logger.Warn("stats record failed", slog.String("kind", string(ev.Kind)), slog.String("err", err.Error()))
	}
}
