package domain

// Camada de domínio do recurso de inscrição.
//
// O recurso é um listener multiplexado, caro de criar/destruir, fornecido pelo ambiente.
// O pool só conhece este contrato.

type EventKind string

// EventDamage é o tipo de evento padrão (entidade sofreu dano).
const EventDamage EventKind = "damage"

// ResourceHandle identifica um recurso de inscrição criado pelo ambiente.
// O valor zero nunca é um handle válido.
type ResourceHandle uint64

// Firing é o contexto de um disparo: quem disparou, o ator causador e a magnitude.
//
// Só é válido durante a invocação do handler que o recebeu.
type Firing struct {
	Kind      EventKind
	Member    Member
	Actor     Member
	Magnitude float64
}

// Handler é um callback opaco executado em cada disparo relevante.
type Handler func(Firing)

// ResourceProvider são as primitivas do recurso de inscrição exigidas do ambiente.
//
// Semântica de disparo (responsabilidade do ambiente): quando o evento observado ocorre
// para qualquer membro registrado, cada handler anexado executa uma vez, de forma síncrona,
// na ordem em que foi anexado.
type ResourceProvider interface {
	Create() ResourceHandle
	Destroy(ResourceHandle)
	AttachHandler(ResourceHandle, Handler)
	RegisterMember(ResourceHandle, Member, EventKind)
}
