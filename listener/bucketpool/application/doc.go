// Package application contém a regra do pool de listeners em buckets: alocação sequencial,
// registro de handlers com fan-out retroativo e a coleta (sweep) de buckets drenados.
//
// Ele depende apenas do pacote domain e não conhece o ambiente concreto.
// Ex.: Pool.Allocate(member) coloca o membro no bucket corrente; Pool.Sweep() recupera os
// buckets cujos membros morreram todos.
package application
