package customer

import (
	"context"
)

// CacheRepository define a interface para o cache de clientes resolvidos
// no Conta Azul
type CacheRepository interface {
	// Find busca a entrada de cache pela chave normalizada do nome
	Find(ctx context.Context, companyID, nameKey string) (*CacheEntry, error)

	// Upsert grava ou atualiza a entrada de cache de um cliente
	Upsert(ctx context.Context, e *CacheEntry) error
}
