package company

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyID            = errors.New("id não pode ser vazio")
	ErrEmptyName          = errors.New("nome não pode ser vazio")
	ErrInvalidCompanyID   = errors.New("ID de company inválido")
	ErrMissingTokens      = errors.New("company sem tokens OAuth salvos")
	ErrMissingRefresh     = errors.New("company sem refresh_token salvo")
	ErrMissingFinancially = errors.New("company sem conta financeira configurada")
)

// Company representa uma empresa atendida pelo BPO, com suas credenciais
// OAuth do Conta Azul e a configuração de envio
type Company struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ReviewMode bool   `json:"review_mode"` // Vendas importadas aguardam aprovação manual

	// Tokens OAuth (por empresa)
	AccessToken    string     `json:"-"`
	RefreshToken   string     `json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`

	// UUIDs do Conta Azul usados na montagem da venda
	FinancialAccountID string `json:"ca_financial_account_id,omitempty"`
	DefaultItemID      string `json:"default_item_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenTriple agrupa o trio de credenciais OAuth persistido por empresa
type TokenTriple struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// AccountMapping associa uma forma de pagamento normalizada a uma conta
// financeira específica do Conta Azul
type AccountMapping struct {
	CompanyID          string    `json:"company_id"`
	PaymentMethodKey   string    `json:"payment_method_key"`
	FinancialAccountID string    `json:"ca_financial_account_id"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewCompany cria uma nova company
func NewCompany(name string) (*Company, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	now := time.Now()
	return &Company{
		ID:         uuid.New().String(),
		Name:       name,
		ReviewMode: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// HasTokens verifica se a company tem o trio de tokens completo
func (c *Company) HasTokens() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// SetTokens grava um novo trio de tokens
func (c *Company) SetTokens(accessToken, refreshToken string, expiresAt time.Time) {
	c.AccessToken = accessToken
	c.RefreshToken = refreshToken
	c.TokenExpiresAt = &expiresAt
	c.UpdatedAt = time.Now()
}

// Update atualiza os dados cadastrais da company
func (c *Company) Update(name string, reviewMode bool) error {
	if name == "" {
		return ErrEmptyName
	}

	c.Name = name
	c.ReviewMode = reviewMode
	c.UpdatedAt = time.Now()
	return nil
}
