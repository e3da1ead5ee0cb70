package application

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"event-fanout/listener/bucketpool/domain"
)

// fakeProvider simula o recurso de inscrição do ambiente.
type fakeProvider struct {
	next      domain.ResourceHandle
	handlers  map[domain.ResourceHandle][]domain.Handler
	members   map[domain.ResourceHandle][]domain.Member
	kinds     map[domain.ResourceHandle]domain.EventKind
	destroyed map[domain.ResourceHandle]int
	created   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		handlers:  make(map[domain.ResourceHandle][]domain.Handler),
		members:   make(map[domain.ResourceHandle][]domain.Member),
		kinds:     make(map[domain.ResourceHandle]domain.EventKind),
		destroyed: make(map[domain.ResourceHandle]int),
	}
}

func (f *fakeProvider) Create() domain.ResourceHandle {
	f.next++
	f.created++
	f.handlers[f.next] = nil
	return f.next
}

func (f *fakeProvider) Destroy(h domain.ResourceHandle) {
	f.destroyed[h]++
	delete(f.handlers, h)
	delete(f.members, h)
}

func (f *fakeProvider) AttachHandler(h domain.ResourceHandle, fn domain.Handler) {
	f.handlers[h] = append(f.handlers[h], fn)
}

func (f *fakeProvider) RegisterMember(h domain.ResourceHandle, m domain.Member, kind domain.EventKind) {
	f.members[h] = append(f.members[h], m)
	f.kinds[h] = kind
}

// fire dispara o evento para m em todo recurso vivo onde m está registrado.
// Retorna quantos recursos dispararam.
func (f *fakeProvider) fire(m domain.Member, actor domain.Member, magnitude float64) int {
	fired := 0
	for h, ms := range f.members {
		for _, registered := range ms {
			if registered != m {
				continue
			}
			fired++
			for _, fn := range f.handlers[h] {
				fn(domain.Firing{Kind: f.kinds[h], Member: m, Actor: actor, Magnitude: magnitude})
			}
		}
	}
	return fired
}

func (f *fakeProvider) live() int { return len(f.handlers) }

// fakeLiveness: toda entidade está viva até ser morta.
type fakeLiveness struct {
	dead map[domain.Member]bool
}

func newFakeLiveness() *fakeLiveness {
	return &fakeLiveness{dead: make(map[domain.Member]bool)}
}

func (l *fakeLiveness) IsAlive(m domain.Member) bool { return !l.dead[m] }

func (l *fakeLiveness) kill(ms ...domain.Member) {
	for _, m := range ms {
		l.dead[m] = true
	}
}

type fakeStats struct {
	events []domain.StatsEvent
	err    error
}

func (s *fakeStats) Record(_ context.Context, ev domain.StatsEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func (s *fakeStats) count(kind domain.StatsKind) int {
	n := 0
	for _, ev := range s.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

var errStatsDown = errors.New("stats down")

// newTestPool cria um pool com ids determinísticos: b0, b1, b2...
func newTestPool(t *testing.T, capacity int) (*Pool, *fakeProvider, *fakeLiveness) {
	t.Helper()

	prov := newFakeProvider()
	live := newFakeLiveness()
	p, err := NewPool(PoolConfig{Capacity: capacity, Resources: prov, Liveness: live})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	seq := 0
	p.newID = func() string {
		id := "b" + strconv.Itoa(seq)
		seq++
		return id
	}
	return p, prov, live
}

func allocateRange(p *Pool, from, to domain.Member) {
	for m := from; m <= to; m++ {
		p.Allocate(m)
	}
}
