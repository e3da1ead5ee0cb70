package domain

import "time"

// Scope delimita o conjunto de entidades consideradas pela auto-inscrição (ex: um mundo, uma zona).
type Scope string

// Directory enumera entidades existentes e avisa quando novas entram no escopo.
// Usado apenas pela auto-inscrição.
type Directory interface {
	Enumerate(Scope) []Member
	OnEnteredScope(Scope, func(Member))
}

// Scheduler executa fn periodicamente, a cada `every`, pelo tempo de vida do processo.
type Scheduler interface {
	SchedulePeriodic(every time.Duration, fn func())
}

// SchedulerFunc adapta uma função comum para Scheduler.
type SchedulerFunc func(every time.Duration, fn func())

func (f SchedulerFunc) SchedulePeriodic(every time.Duration, fn func()) { f(every, fn) }
