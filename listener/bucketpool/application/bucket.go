package application

import (
	"fmt"

	"event-fanout/listener/bucketpool/domain"
)

// Bucket agrupa até `capacity` membros que compartilham um único recurso de inscrição.
//
// O bucket é dono exclusivo do recurso: criado junto com o bucket e destruído uma única
// vez, no release.
type Bucket struct {
	id       string
	capacity int
	members  []domain.Member
	resource domain.ResourceHandle
	released bool
}

func newBucket(id string, capacity int, res domain.ResourceHandle) *Bucket {
	return &Bucket{
		id:       id,
		capacity: capacity,
		members:  make([]domain.Member, 0, capacity),
		resource: res,
	}
}

func (b *Bucket) ID() string                      { return b.id }
func (b *Bucket) Fill() int                       { return len(b.members) }
func (b *Bucket) Capacity() int                   { return b.capacity }
func (b *Bucket) Full() bool                      { return len(b.members) >= b.capacity }
func (b *Bucket) Resource() domain.ResourceHandle { return b.resource }

// Members devolve uma cópia dos membros ocupando os slots, em ordem de alocação.
func (b *Bucket) Members() []domain.Member {
	out := make([]domain.Member, len(b.members))
	copy(out, b.members)
	return out
}

func (b *Bucket) add(m domain.Member) {
	b.members = append(b.members, m)
}

// drained percorre os slots do bucket; slot nunca preenchido conta como "não vivo".
func (b *Bucket) drained(l domain.Liveness) bool {
	for i := 0; i < b.capacity; i++ {
		if i >= len(b.members) {
			continue
		}
		if l.IsAlive(b.members[i]) {
			return false
		}
	}
	return true
}

// release destrói o recurso. Chamar duas vezes é erro de programação.
func (b *Bucket) release(p domain.ResourceProvider) {
	if b.released {
		panic(fmt.Sprintf("bucketpool: bucket %s released twice", b.id))
	}
	p.Destroy(b.resource)
	b.released = true
	b.resource = 0
	b.members = nil
}
