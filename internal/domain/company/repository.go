package company

import (
	"context"
)

// Repository define a interface para operações de repositório de companies
type Repository interface {
	// Create cria uma nova company
	Create(ctx context.Context, c *Company) error

	// FindByID busca uma company pelo ID
	FindByID(ctx context.Context, id string) (*Company, error)

	// FindByName busca uma company pelo nome exato
	FindByName(ctx context.Context, name string) (*Company, error)

	// List lista companies com paginação
	List(ctx context.Context, limit, offset int) ([]*Company, error)

	// Update atualiza os dados cadastrais de uma company
	Update(ctx context.Context, c *Company) error

	// Delete remove uma company
	Delete(ctx context.Context, id string) error

	// GetTokens lê o trio de tokens com a versão mais recente do banco
	GetTokens(ctx context.Context, id string) (*TokenTriple, error)

	// UpdateTokens grava um novo trio de tokens com atualização exclusiva
	// (a linha da company fica bloqueada durante a escrita)
	UpdateTokens(ctx context.Context, id string, t *TokenTriple) error

	// UpdateFinancialAccount define a conta financeira padrão da company
	UpdateFinancialAccount(ctx context.Context, id, financialAccountID string) error

	// UpdateDefaultItem define o item/produto padrão da company
	UpdateDefaultItem(ctx context.Context, id, defaultItemID string) error

	// Count conta quantas companies existem
	Count(ctx context.Context) (int, error)
}

// MappingRepository define a interface para o mapeamento de contas
// financeiras por forma de pagamento
type MappingRepository interface {
	// Upsert grava ou substitui o mapeamento de uma forma de pagamento
	Upsert(ctx context.Context, m *AccountMapping) error

	// FindByCompany lista todos os mapeamentos de uma company
	FindByCompany(ctx context.Context, companyID string) ([]*AccountMapping, error)

	// FindByMethod busca o mapeamento de uma forma de pagamento específica
	FindByMethod(ctx context.Context, companyID, paymentMethodKey string) (*AccountMapping, error)

	// Delete remove o mapeamento de uma forma de pagamento
	Delete(ctx context.Context, companyID, paymentMethodKey string) error
}
