package domain

import "strconv"

// Member é um handle opaco para uma entidade externa.
//
// O pool não guarda estado da entidade: a validade é consultada (Liveness), nunca armazenada.
type Member uint64

func (m Member) String() string { return "member#" + strconv.FormatUint(uint64(m), 10) }

// Liveness responde se a entidade referenciada por um Member ainda existe.
type Liveness interface {
	IsAlive(Member) bool
}

// LivenessFunc adapta uma função comum para Liveness.
type LivenessFunc func(Member) bool

func (f LivenessFunc) IsAlive(m Member) bool { return f(m) }
