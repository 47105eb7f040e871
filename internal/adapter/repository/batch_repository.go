package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bpoflow/vendas-backend/internal/domain/batch"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrBatchNotFound = errors.New("batch não encontrado")
)

// BatchRepository implementa a interface batch.Repository
type BatchRepository struct {
	db *pgxpool.Pool
}

// NewBatchRepository cria uma nova instância de BatchRepository
func NewBatchRepository(db *pgxpool.Pool) batch.Repository {
	return &BatchRepository{
		db: db,
	}
}

// Create implementa batch.Repository.Create
func (r *BatchRepository) Create(ctx context.Context, b *batch.Batch) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO upload_batches (id, company_id, filename, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.CompanyID, b.Filename, b.Status, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar batch: %w", err)
	}
	return nil
}

// FindByID implementa batch.Repository.FindByID
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*batch.Batch, error) {
	var b batch.Batch
	err := r.db.QueryRow(ctx,
		`SELECT id, company_id, filename, status, created_at
		FROM upload_batches WHERE id = $1`, id).
		Scan(&b.ID, &b.CompanyID, &b.Filename, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("erro ao buscar batch: %w", err)
	}
	return &b, nil
}

// List implementa batch.Repository.List
func (r *BatchRepository) List(ctx context.Context, companyID string, limit, offset int) ([]*batch.Batch, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, company_id, filename, status, created_at
		FROM upload_batches WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar batches: %w", err)
	}
	defer rows.Close()

	var batches []*batch.Batch
	for rows.Next() {
		var b batch.Batch
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.Filename, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler batch: %w", err)
		}
		batches = append(batches, &b)
	}

	return batches, rows.Err()
}

// UpdateStatus implementa batch.Repository.UpdateStatus
func (r *BatchRepository) UpdateStatus(ctx context.Context, id string, status batch.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE upload_batches SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status do batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}
