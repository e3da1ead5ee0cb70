package application

import (
	"log/slog"

	"event-fanout/listener/bucketpool/domain"
)

// SweepResult resume uma passada do coletor.
type SweepResult struct {
	// Scanned conta exames de bucket (um slot reexaminado após swap conta de novo).
	Scanned   int
	Reclaimed int
	Live      int
}

// Sweep percorre todos os buckets, exceto o corrente, e recupera os drenados (nenhum
// membro vivo).
//
// Remoção por swap com o último: o bucket do fim ocupa o slot liberado, o número de vivos
// diminui e o mesmo slot é reexaminado, já que o bucket trazido ainda não foi checado.
// Se o bucket trazido for o corrente, o índice corrente passa a apontar para o slot novo.
//
// Cada passada é completa e independente; não há estado entre sweeps além dos buckets.
func (p *Pool) Sweep() SweepResult {
	p.mu.Lock()

	var res SweepResult
	var reclaimed []string

	live := len(p.buckets)
	for i := 0; i < live; {
		if i == p.current {
			i++
			continue
		}

		b := p.buckets[i]
		res.Scanned++
		if !b.drained(p.liveness) {
			i++
			continue
		}

		b.release(p.resources)
		reclaimed = append(reclaimed, b.id)

		last := live - 1
		p.buckets[i] = p.buckets[last]
		p.buckets[last] = nil
		live--
		if p.current == last {
			p.current = i
		}
	}
	p.buckets = p.buckets[:live]

	res.Reclaimed = len(reclaimed)
	res.Live = live
	p.mu.Unlock()

	for _, id := range reclaimed {
		p.logger.Debug("bucket reclaimed", slog.String("bucket", id))
		p.record(domain.StatsEvent{Kind: domain.StatsBucketReclaimed, BucketID: id})
	}
	p.logger.Debug("sweep done",
		slog.Int("scanned", res.Scanned),
		slog.Int("reclaimed", res.Reclaimed),
		slog.Int("live", res.Live),
	)
	p.record(domain.StatsEvent{Kind: domain.StatsSweep, Count: res.Live})
	return res
}
