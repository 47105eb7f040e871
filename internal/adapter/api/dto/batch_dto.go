package dto

import (
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/batch"
)

// BatchResponse representa a estrutura de dados de resposta para batch
type BatchResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Filename  string    `json:"filename"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToBatchResponse converte um modelo de domínio em uma resposta DTO
func ToBatchResponse(b *batch.Batch) BatchResponse {
	return BatchResponse{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		Filename:  b.Filename,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

// ToBatchListResponse converte uma lista de batches para o formato de resposta
func ToBatchListResponse(batches []*batch.Batch) []BatchResponse {
	responses := make([]BatchResponse, len(batches))
	for i, b := range batches {
		responses[i] = ToBatchResponse(b)
	}
	return responses
}
