// Package bucketpool fornece um motor de notificação "entidade sofreu evento E" para uma
// população grande e dinâmica de entidades.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos (Member, Handler, ResourceProvider, Liveness, Directory, Scheduler)
//   - application: regra do pool (alocação em buckets, fan-out de handlers, sweep) sem ambiente concreto
//   - infra: ambiente em memória (Hub, World), agendadores (Janitor, TickGate) e estatísticas
//   - bucketpool (este pacote): Options + validação + wiring do pool, do sweep periódico e da auto-inscrição
//
// Em vez de um listener por entidade, as entidades são agrupadas em buckets de capacidade
// fixa e cada bucket compartilha um único recurso de inscrição. Todo handler registrado é
// anexado a todos os buckets, os existentes e os futuros.
//
// Fluxo:
//
//  1. New valida as opções (capacidade >= 1, intervalo de sweep > 0)
//  2. O sweep é agendado no Scheduler a cada SweepInterval
//  3. Com AutoEnrollAll, as entidades existentes do escopo são alocadas e as novas passam a ser
//  4. Eventos disparados pelo ambiente chegam aos handlers, na ordem de registro
//
// Variáveis de ambiente do binário de simulação (cmd/fanout-sim) controlam o comportamento,
// como BUCKET_CAPACITY, SWEEP_INTERVAL e AUTO_ENROLL_ALL.
package bucketpool
