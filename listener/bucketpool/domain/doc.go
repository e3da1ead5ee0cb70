// Package domain define contratos e tipos de domínio para o pool de listeners em buckets.
//
// Este pacote não depende de nenhuma implementação concreta do ambiente (hub de eventos,
// registro de entidades, agendador). A intenção é permitir testes de unidade puros e
// desacoplar a regra do pool dos detalhes de infraestrutura.
package domain
