package batch

import (
	"context"
)

// Repository define a interface para operações de repositório de batches
type Repository interface {
	// Create registra um novo batch de upload
	Create(ctx context.Context, b *Batch) error

	// FindByID busca um batch pelo ID
	FindByID(ctx context.Context, id string) (*Batch, error)

	// List lista os batches de uma company, mais recentes primeiro
	List(ctx context.Context, companyID string, limit, offset int) ([]*Batch, error)

	// UpdateStatus atualiza o status de processamento de um batch
	UpdateStatus(ctx context.Context, id string, status Status) error
}
