package batch

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyFilename = errors.New("nome do arquivo não pode ser vazio")
)

// Status representa o estado do processamento do upload
type Status string

const (
	StatusProcessed Status = "PROCESSADO"
	StatusFailed    Status = "FALHOU"
)

// Batch representa um evento de upload de planilha. O batch delimita o
// escopo de deduplicação das vendas e das operações em lote
type Batch struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Filename  string    `json:"filename"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBatch cria um novo batch de upload
func NewBatch(companyID, filename string) (*Batch, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	return &Batch{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Filename:  filename,
		Status:    StatusProcessed,
		CreatedAt: time.Now(),
	}, nil
}
