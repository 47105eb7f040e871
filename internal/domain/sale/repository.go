package sale

import (
	"context"
)

// Filter define os filtros aceitos na listagem de vendas
type Filter struct {
	CompanyID string
	BatchID   string
	Status    Status
}

// Repository define a interface para operações de repositório de vendas
type Repository interface {
	// Create cria uma venda com seus itens em uma única transação
	Create(ctx context.Context, s *Sale, items []*SaleItem) error

	// FindByID busca uma venda pelo ID
	FindByID(ctx context.Context, id string) (*Sale, error)

	// FindItems busca os itens de uma venda
	FindItems(ctx context.Context, saleID string) ([]*SaleItem, error)

	// List lista vendas por filtro, em ordem estável de criação
	List(ctx context.Context, f Filter) ([]*Sale, error)

	// ExistsByHash verifica se já existe venda com o mesmo hash no
	// escopo (company, batch), base da deduplicação de importação
	ExistsByHash(ctx context.Context, companyID, batchID, hashUnique string) (bool, error)

	// ListSendable lista as vendas enviáveis de um batch em ordem estável
	ListSendable(ctx context.Context, companyID, batchID string) ([]*Sale, error)

	// Update atualiza status, resumo de erro e ID remoto de uma venda
	Update(ctx context.Context, s *Sale) error
}
