package sale

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyID           = errors.New("id não pode ser vazio")
	ErrEmptyCustomer     = errors.New("nome do cliente não pode ser vazio")
	ErrAlreadySent       = errors.New("venda já enviada ao Conta Azul")
	ErrNotSendable       = errors.New("venda não está em status enviável")
	ErrNotAwaitingReview = errors.New("venda não está aguardando aprovação")
)

// Status representa o estado da venda no ciclo de importação/envio
type Status string

const (
	// StatusAwaitingApproval aguarda aprovação manual (review_mode ligado)
	StatusAwaitingApproval Status = "AGUARDANDO_APROVACAO"
	// StatusReady pronta para envio ao Conta Azul
	StatusReady Status = "PRONTA"
	// StatusSent enviada com sucesso; estado terminal
	StatusSent Status = "ENVIADA_CA"
	// StatusSendError falha no envio; pode ser reenviada
	StatusSendError Status = "ERRO_ENVIO_CA"
	// StatusError falha de validação na importação; estado terminal
	StatusError Status = "ERRO"
)

// Sale representa uma venda agrupada a partir das linhas da planilha.
// A identidade dentro de um batch é dada por (GroupKey, HashUnique):
// linhas com a mesma composição de campos e itens geram o mesmo hash
// e não são importadas duas vezes.
type Sale struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	BatchID   string `json:"batch_id"`

	GroupKey   string `json:"group_key"`
	HashUnique string `json:"hash_unique"`

	SaleDate         time.Time `json:"sale_date"`
	CustomerName     string    `json:"customer_name"`
	PaymentMethod    string    `json:"payment_method"`
	PaymentTerms     string    `json:"payment_terms"`
	ReceivingAccount string    `json:"receiving_account"`
	DueDate          time.Time `json:"due_date"`

	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       Status          `json:"status"`
	ErrorSummary string          `json:"error_summary,omitempty"`
	CaSaleID     string          `json:"ca_sale_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaleItem representa uma linha da planilha dentro de uma venda agrupada
type SaleItem struct {
	ID     string `json:"id"`
	SaleID string `json:"sale_id"`

	Category       string `json:"category,omitempty"`
	ProductService string `json:"product_service"`
	Details        string `json:"details,omitempty"`

	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NewSale cria uma venda a partir dos campos agrupados
func NewSale(companyID, batchID, groupKey, hashUnique string) *Sale {
	now := time.Now()
	return &Sale{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		BatchID:    batchID,
		GroupKey:   groupKey,
		HashUnique: hashUnique,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsSendable verifica se a venda pode ser enviada ao Conta Azul.
// PRONTA e ERRO_ENVIO_CA são enviáveis; ENVIADA_CA é terminal e o
// reenvio é rejeitado para não duplicar a venda no sistema remoto.
func (s *Sale) IsSendable() bool {
	return s.Status == StatusReady || s.Status == StatusSendError
}

// Approve transiciona AGUARDANDO_APROVACAO -> PRONTA
func (s *Sale) Approve() error {
	if s.Status != StatusAwaitingApproval {
		return ErrNotAwaitingReview
	}
	s.Status = StatusReady
	s.UpdatedAt = time.Now()
	return nil
}

// MarkSent registra o envio com sucesso e o ID remoto da venda
func (s *Sale) MarkSent(caSaleID string) {
	s.Status = StatusSent
	s.CaSaleID = caSaleID
	s.ErrorSummary = ""
	s.UpdatedAt = time.Now()
}

// MarkSendError registra a falha de envio; o resumo é truncado em 1000
// caracteres para caber na coluna de erro
func (s *Sale) MarkSendError(summary string) {
	s.Status = StatusSendError
	s.ErrorSummary = TruncateError(summary)
	s.UpdatedAt = time.Now()
}

// TruncateError limita um resumo de erro a 1000 caracteres
func TruncateError(summary string) string {
	runes := []rune(summary)
	if len(runes) > 1000 {
		return string(runes[:1000])
	}
	return summary
}
