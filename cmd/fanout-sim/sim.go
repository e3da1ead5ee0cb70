package main

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"event-fanout/listener/bucketpool"
	"event-fanout/listener/bucketpool/domain"
	"event-fanout/listener/bucketpool/infra"

	"golang.org/x/time/rate"
)

const frame = 10 * time.Millisecond

// simulator gera população e dano para exercitar o pool. Roda numa única goroutine;
// o sweep roda em paralelo, agendado pelo janitor.
type simulator struct {
	sc     scenario
	scope  domain.Scope
	kind   domain.EventKind
	world  *infra.World
	hub    *infra.Hub
	engine *bucketpool.Engine
	stats  *infra.MemoryStatsStore
	logger *slog.Logger

	// manual: sem auto-inscrição o simulador aloca cada entidade que cria
	manual bool

	rng     *rand.Rand
	spawn   *rate.Limiter
	damage  *rate.Limiter
	expires map[domain.Member]time.Time
	tracked []domain.Member

	hits   int64
	deaths int64
}

func newSimulator(sc scenario, scope domain.Scope, kind domain.EventKind, world *infra.World, hub *infra.Hub,
	engine *bucketpool.Engine, stats *infra.MemoryStatsStore, logger *slog.Logger) *simulator {
	return &simulator{
		sc:      sc,
		scope:   scope,
		kind:    kind,
		world:   world,
		hub:     hub,
		engine:  engine,
		stats:   stats,
		logger:  logger,
		rng:     rand.New(rand.NewSource(sc.Seed)),
		spawn:   rate.NewLimiter(rate.Limit(sc.SpawnPerSecond), burstFor(sc.SpawnPerSecond)),
		damage:  rate.NewLimiter(rate.Limit(sc.DamagePerSecond), burstFor(sc.DamagePerSecond)),
		expires: make(map[domain.Member]time.Time),
	}
}

func burstFor(perSecond float64) int {
	if perSecond <= 0 {
		return 0
	}
	if b := int(perSecond * frame.Seconds() * 2); b > 1 {
		return b
	}
	return 1
}

// installHandlers registra os handlers do simulador: contagem de acertos e morte por dano letal.
func (s *simulator) installHandlers() {
	s.engine.AddHandler(func(f domain.Firing) {
		s.hits++
	})
	s.engine.AddHandler(func(f domain.Firing) {
		if s.sc.LethalDamage > 0 && f.Magnitude >= s.sc.LethalDamage && s.world.Kill(f.Member) {
			s.deaths++
			s.logger.Debug("entity killed",
				slog.String("member", f.Member.String()),
				slog.String("actor", f.Actor.String()),
				slog.Float64("damage", f.Magnitude),
			)
		}
	})
}

func (s *simulator) populate(now time.Time) {
	for i := 0; i < s.sc.InitialPopulation; i++ {
		s.spawnOne(now)
	}
}

func (s *simulator) spawnOne(now time.Time) domain.Member {
	m := s.world.Spawn(s.scope)
	// vida entre 50% e 150% do configurado
	life := time.Duration(float64(s.sc.Lifetime) * (0.5 + s.rng.Float64()))
	s.expires[m] = now.Add(life)
	s.tracked = append(s.tracked, m)
	if s.manual && s.engine != nil {
		s.engine.Allocate(m)
	}
	return m
}

// enrollTracked aloca manualmente as entidades já criadas (usado sem auto-inscrição).
func (s *simulator) enrollTracked() {
	for _, m := range s.tracked {
		s.engine.Allocate(m)
	}
}

// run avança a simulação até ctx encerrar, logando um relatório a cada reportEvery.
func (s *simulator) run(ctx context.Context, reportEvery time.Duration) {
	t := time.NewTicker(frame)
	defer t.Stop()

	var report <-chan time.Time
	if reportEvery > 0 {
		rt := time.NewTicker(reportEvery)
		defer rt.Stop()
		report = rt.C
	}

	for {
		select {
		case <-ctx.Done():
			s.report()
			return
		case now := <-t.C:
			s.step(now)
		case <-report:
			s.report()
		}
	}
}

func (s *simulator) step(now time.Time) {
	for s.spawn.AllowN(now, 1) {
		s.spawnOne(now)
	}
	s.expire(now)
	for len(s.tracked) > 0 && s.damage.AllowN(now, 1) {
		victim := s.tracked[s.rng.Intn(len(s.tracked))]
		var actor domain.Member
		if len(s.tracked) > 1 {
			actor = s.tracked[s.rng.Intn(len(s.tracked))]
		}
		s.hub.Fire(s.kind, victim, actor, s.rng.Float64()*s.sc.MaxDamage)
	}
}

// expire mata entidades com vida vencida e tira as mortas da lista de alvos.
func (s *simulator) expire(now time.Time) {
	alive := s.tracked[:0]
	for _, m := range s.tracked {
		if now.After(s.expires[m]) {
			s.world.Kill(m)
		}
		if !s.world.IsAlive(m) {
			delete(s.expires, m)
			continue
		}
		alive = append(alive, m)
	}
	s.tracked = alive
}

func (s *simulator) report() {
	hub := s.hub.Stats()
	total := s.stats.Total()
	s.logger.Info("pool report",
		slog.Int("population", s.world.Population()),
		slog.Int("buckets", s.engine.Len()),
		slog.Int("resources_live", hub.Live),
		slog.Int("resources_created", hub.Created),
		slog.Int("resources_destroyed", hub.Destroyed),
		slog.Int64("allocated", total.Allocated),
		slog.Int64("sweeps", total.Sweeps),
		slog.Int64("hits", s.hits),
		slog.Int64("deaths", s.deaths),
	)
}
