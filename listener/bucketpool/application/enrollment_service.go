package application

import "event-fanout/listener/bucketpool/domain"

// EnrollmentService inscreve automaticamente todas as entidades de um escopo.
//
// Não guarda estado: só consome Directory e Allocator.
type EnrollmentService struct {
	Directory domain.Directory
	Allocator Allocator
}

// Start aloca cada entidade já existente no escopo e depois registra a observação de
// entrada no escopo, que aloca cada entidade nova.
// Retorna quantas entidades existentes foram inscritas.
func (s EnrollmentService) Start(scope domain.Scope) int {
	if s.Directory == nil || s.Allocator == nil {
		return 0
	}

	existing := s.Directory.Enumerate(scope)
	for _, m := range existing {
		s.Allocator.Allocate(m)
	}
	s.Directory.OnEnteredScope(scope, s.Allocator.Allocate)
	return len(existing)
}
