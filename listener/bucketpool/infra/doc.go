// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - Hub: recurso de inscrição multiplexado em memória (create/destroy/attach/register + Fire)
//   - World: registro de entidades (liveness, enumeração, aviso de entrada no escopo)
//   - Janitor: agendador periódico com ticker, cada execução vira um span OpenTelemetry
//   - TickGate: agendador para hosts com loop de frames, usando golang.org/x/time/rate
//   - MemoryStatsStore / RedisStatsStore / AsyncStats: estatísticas do pool
package infra
