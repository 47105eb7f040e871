package dto

import (
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/sale"
	"github.com/bpoflow/vendas-backend/internal/service"
)

// SaleResponse representa a estrutura de dados de resposta para venda
type SaleResponse struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"company_id"`
	BatchID          string    `json:"batch_id"`
	SaleDate         string    `json:"sale_date"`
	CustomerName     string    `json:"customer_name"`
	PaymentMethod    string    `json:"payment_method"`
	PaymentTerms     string    `json:"payment_terms"`
	ReceivingAccount string    `json:"receiving_account"`
	DueDate          string    `json:"due_date"`
	TotalAmount      string    `json:"total_amount"`
	Status           string    `json:"status"`
	ErrorSummary     string    `json:"error_summary,omitempty"`
	CaSaleID         string    `json:"ca_sale_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SaleItemResponse representa um item da venda
type SaleItemResponse struct {
	ID             string `json:"id"`
	Category       string `json:"category,omitempty"`
	ProductService string `json:"product_service"`
	Details        string `json:"details,omitempty"`
	Qty            string `json:"qty"`
	UnitPrice      string `json:"unit_price"`
	LineTotal      string `json:"line_total"`
}

// SaleDetailResponse representa a venda com seus itens
type SaleDetailResponse struct {
	Sale  SaleResponse       `json:"sale"`
	Items []SaleItemResponse `json:"items"`
}

// ImportResultResponse representa os contadores da importação
type ImportResultResponse struct {
	BatchID   string `json:"batch_id"`
	Created   int    `json:"created"`
	Ready     int    `json:"ready"`
	Awaiting  int    `json:"awaiting"`
	WithError int    `json:"with_error"`
	RowErrors int    `json:"row_errors"`
}

// BatchSendResponse representa o resultado de um envio em lote
type BatchSendResponse struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// ApproveBatchResponse representa o resultado de uma aprovação em lote
type ApproveBatchResponse struct {
	Approved int `json:"approved"`
}

// ToSaleResponse converte um modelo de domínio em uma resposta DTO
func ToSaleResponse(s *sale.Sale) SaleResponse {
	return SaleResponse{
		ID:               s.ID,
		CompanyID:        s.CompanyID,
		BatchID:          s.BatchID,
		SaleDate:         s.SaleDate.Format("2006-01-02"),
		CustomerName:     s.CustomerName,
		PaymentMethod:    s.PaymentMethod,
		PaymentTerms:     s.PaymentTerms,
		ReceivingAccount: s.ReceivingAccount,
		DueDate:          s.DueDate.Format("2006-01-02"),
		TotalAmount:      s.TotalAmount.StringFixed(2),
		Status:           string(s.Status),
		ErrorSummary:     s.ErrorSummary,
		CaSaleID:         s.CaSaleID,
		CreatedAt:        s.CreatedAt,
	}
}

// ToSaleListResponse converte uma lista de vendas para o formato de resposta
func ToSaleListResponse(sales []*sale.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(sales))
	for i, s := range sales {
		responses[i] = ToSaleResponse(s)
	}
	return responses
}

// ToSaleDetailResponse converte a venda e seus itens para o formato de resposta
func ToSaleDetailResponse(s *sale.Sale, items []*sale.SaleItem) SaleDetailResponse {
	detail := SaleDetailResponse{
		Sale:  ToSaleResponse(s),
		Items: make([]SaleItemResponse, len(items)),
	}
	for i, item := range items {
		detail.Items[i] = SaleItemResponse{
			ID:             item.ID,
			Category:       item.Category,
			ProductService: item.ProductService,
			Details:        item.Details,
			Qty:            item.Qty.String(),
			UnitPrice:      item.UnitPrice.StringFixed(2),
			LineTotal:      item.LineTotal.StringFixed(2),
		}
	}
	return detail
}

// ToImportResultResponse converte o resultado da importação
func ToImportResultResponse(batchID string, r *service.ImportResult) ImportResultResponse {
	return ImportResultResponse{
		BatchID:   batchID,
		Created:   r.Created,
		Ready:     r.Ready,
		Awaiting:  r.Awaiting,
		WithError: r.WithError,
		RowErrors: r.RowErrors,
	}
}
