package infra

import (
	"slices"
	"sync"

	"event-fanout/listener/bucketpool/domain"
)

// World é um registro de entidades em memória, separado por escopo.
//
// Implementa domain.Liveness e domain.Directory. Observadores de entrada no escopo são
// chamados fora do lock.
type World struct {
	mu       sync.RWMutex
	next     domain.Member
	alive    map[domain.Member]domain.Scope
	watchers map[domain.Scope][]func(domain.Member)
}

func NewWorld() *World {
	return &World{
		alive:    make(map[domain.Member]domain.Scope),
		watchers: make(map[domain.Scope][]func(domain.Member)),
	}
}

// Spawn cria uma entidade no escopo e avisa os observadores. Handles começam em 1;
// 0 fica reservado para "sem ator".
func (w *World) Spawn(scope domain.Scope) domain.Member {
	w.mu.Lock()
	w.next++
	m := w.next
	w.alive[m] = scope
	watchers := slices.Clone(w.watchers[scope])
	w.mu.Unlock()

	for _, fn := range watchers {
		fn(m)
	}
	return m
}

// Kill remove a entidade. Retorna false se ela já não existia.
func (w *World) Kill(m domain.Member) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.alive[m]; !ok {
		return false
	}
	delete(w.alive, m)
	return true
}

func (w *World) IsAlive(m domain.Member) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.alive[m]
	return ok
}

// Enumerate devolve as entidades vivas do escopo em ordem crescente de handle.
func (w *World) Enumerate(scope domain.Scope) []domain.Member {
	w.mu.RLock()
	out := make([]domain.Member, 0, len(w.alive))
	for m, s := range w.alive {
		if s == scope {
			out = append(out, m)
		}
	}
	w.mu.RUnlock()

	slices.Sort(out)
	return out
}

func (w *World) OnEnteredScope(scope domain.Scope, fn func(domain.Member)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watchers[scope] = append(w.watchers[scope], fn)
}

func (w *World) Population() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.alive)
}
