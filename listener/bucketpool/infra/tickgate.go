package infra

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TickGate implementa domain.Scheduler para hosts que já têm um loop de frames: o host
// chama Tick() a cada frame e cada tarefa roda no máximo uma vez por intervalo.
//
// Tudo roda na goroutine do host, sem paralelismo interno.
type TickGate struct {
	mu   sync.Mutex
	jobs []gateJob
}

type gateJob struct {
	gate *rate.Sometimes
	fn   func()
}

func NewTickGate() *TickGate { return &TickGate{} }

func (g *TickGate) SchedulePeriodic(every time.Duration, fn func()) {
	if every <= 0 {
		return
	}
	s := &rate.Sometimes{Interval: every}
	// Sometimes sempre roda na primeira chamada; consome essa execução aqui para que a
	// primeira tarefa real só aconteça depois de `every`.
	s.Do(func() {})

	g.mu.Lock()
	g.jobs = append(g.jobs, gateJob{gate: s, fn: fn})
	g.mu.Unlock()
}

// Tick executa as tarefas cujo intervalo já venceu.
func (g *TickGate) Tick() {
	g.mu.Lock()
	jobs := make([]gateJob, len(g.jobs))
	copy(jobs, g.jobs)
	g.mu.Unlock()

	for _, j := range jobs {
		j.gate.Do(j.fn)
	}
}

func (g *TickGate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.jobs)
}
