package infra

import (
	"slices"
	"sync"

	"event-fanout/listener/bucketpool/domain"
)

// Hub é um recurso de inscrição multiplexado em memória.
//
// Cada recurso criado tem sua lista ordenada de handlers e seu conjunto de membros.
// Fire invoca os handlers fora do lock, então um handler pode chamar de volta o pool
// (ex: alocar uma entidade nova) sem deadlock.
type Hub struct {
	mu        sync.Mutex
	next      domain.ResourceHandle
	resources map[domain.ResourceHandle]*hubResource
	byMember  map[domain.Member]map[domain.ResourceHandle]struct{}

	created   int
	destroyed int
}

type hubResource struct {
	handlers []domain.Handler
	members  map[domain.Member]domain.EventKind
}

func NewHub() *Hub {
	return &Hub{
		resources: make(map[domain.ResourceHandle]*hubResource),
		byMember:  make(map[domain.Member]map[domain.ResourceHandle]struct{}),
	}
}

func (h *Hub) Create() domain.ResourceHandle {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.next++
	h.resources[h.next] = &hubResource{members: make(map[domain.Member]domain.EventKind)}
	h.created++
	return h.next
}

// Destroy remove o recurso e todas as suas inscrições. Handle desconhecido é ignorado.
func (h *Hub) Destroy(handle domain.ResourceHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()

	res, ok := h.resources[handle]
	if !ok {
		return
	}
	for m := range res.members {
		set := h.byMember[m]
		delete(set, handle)
		if len(set) == 0 {
			delete(h.byMember, m)
		}
	}
	delete(h.resources, handle)
	h.destroyed++
}

func (h *Hub) AttachHandler(handle domain.ResourceHandle, fn domain.Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if res, ok := h.resources[handle]; ok {
		res.handlers = append(res.handlers, fn)
	}
}

func (h *Hub) RegisterMember(handle domain.ResourceHandle, m domain.Member, kind domain.EventKind) {
	h.mu.Lock()
	defer h.mu.Unlock()

	res, ok := h.resources[handle]
	if !ok {
		return
	}
	res.members[m] = kind
	set := h.byMember[m]
	if set == nil {
		set = make(map[domain.ResourceHandle]struct{})
		h.byMember[m] = set
	}
	set[handle] = struct{}{}
}

// Fire dispara um evento `kind` sofrido por m, causado por actor.
// Em cada recurso onde m está inscrito para `kind`, todos os handlers rodam uma vez, em
// ordem de anexação. Retorna quantos recursos dispararam.
func (h *Hub) Fire(kind domain.EventKind, m, actor domain.Member, magnitude float64) int {
	h.mu.Lock()
	handles := make([]domain.ResourceHandle, 0, len(h.byMember[m]))
	for handle := range h.byMember[m] {
		if h.resources[handle].members[m] == kind {
			handles = append(handles, handle)
		}
	}
	slices.Sort(handles)
	batches := make([][]domain.Handler, 0, len(handles))
	for _, handle := range handles {
		batches = append(batches, slices.Clone(h.resources[handle].handlers))
	}
	h.mu.Unlock()

	f := domain.Firing{Kind: kind, Member: m, Actor: actor, Magnitude: magnitude}
	for _, handlers := range batches {
		for _, fn := range handlers {
			fn(f)
		}
	}
	return len(batches)
}

// HubStats resume o uso de recursos do hub.
type HubStats struct {
	Live      int
	Created   int
	Destroyed int
}

func (h *Hub) Stats() HubStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HubStats{Live: len(h.resources), Created: h.created, Destroyed: h.destroyed}
}

// HandlerCount devolve quantos handlers estão anexados ao recurso (0 se não existe).
func (h *Hub) HandlerCount(handle domain.ResourceHandle) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if res, ok := h.resources[handle]; ok {
		return len(res.handlers)
	}
	return 0
}
