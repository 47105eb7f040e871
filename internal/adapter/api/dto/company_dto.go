package dto

import (
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/company"
)

// CompanyRequest representa a estrutura de dados para criação/atualização de company
type CompanyRequest struct {
	Name       string `json:"name" binding:"required"`
	ReviewMode *bool  `json:"review_mode"`
}

// CompanyResponse representa a estrutura de dados de resposta para company.
// Tokens nunca saem na resposta; apenas a indicação de que existem
type CompanyResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	ReviewMode         bool       `json:"review_mode"`
	HasToken           bool       `json:"has_token"`
	TokenExpiresAt     *time.Time `json:"token_expires_at,omitempty"`
	FinancialAccountID string     `json:"ca_financial_account_id,omitempty"`
	DefaultItemID      string     `json:"default_item_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CompanyListResponse representa a resposta de listagem de companies
type CompanyListResponse struct {
	Companies  []CompanyResponse `json:"companies"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// TokensRequest representa o salvamento manual do trio de tokens OAuth
type TokensRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
	ExpiresIn    int    `json:"expires_in"`
}

// FinancialAccountRequest define a conta financeira padrão da company
type FinancialAccountRequest struct {
	FinancialAccountID string `json:"ca_financial_account_id" binding:"required"`
}

// DefaultItemRequest define o item/produto padrão da company
type DefaultItemRequest struct {
	DefaultItemID string `json:"default_item_id" binding:"required"`
}

// MappingRequest representa o mapeamento de conta por forma de pagamento
type MappingRequest struct {
	PaymentMethodKey   string `json:"payment_method_key" binding:"required"`
	FinancialAccountID string `json:"ca_financial_account_id" binding:"required"`
}

// MappingResponse representa um mapeamento de conta
type MappingResponse struct {
	PaymentMethodKey   string `json:"payment_method_key"`
	FinancialAccountID string `json:"ca_financial_account_id"`
}

// ToCompanyResponse converte um modelo de domínio em uma resposta DTO
func ToCompanyResponse(c *company.Company) CompanyResponse {
	return CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		ReviewMode:         c.ReviewMode,
		HasToken:           c.HasTokens(),
		TokenExpiresAt:     c.TokenExpiresAt,
		FinancialAccountID: c.FinancialAccountID,
		DefaultItemID:      c.DefaultItemID,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// ToCompanyListResponse converte uma lista de companies para o formato de resposta
func ToCompanyListResponse(companies []*company.Company, totalCount, page, pageSize int) CompanyListResponse {
	response := CompanyListResponse{
		Companies:  make([]CompanyResponse, len(companies)),
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(totalCount, pageSize),
	}

	for i, c := range companies {
		response.Companies[i] = ToCompanyResponse(c)
	}

	return response
}

// ToMappingResponses converte os mapeamentos para o formato de resposta
func ToMappingResponses(mappings []*company.AccountMapping) []MappingResponse {
	responses := make([]MappingResponse, len(mappings))
	for i, m := range mappings {
		responses[i] = MappingResponse{
			PaymentMethodKey:   m.PaymentMethodKey,
			FinancialAccountID: m.FinancialAccountID,
		}
	}
	return responses
}
