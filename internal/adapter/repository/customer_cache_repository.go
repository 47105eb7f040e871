package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/customer"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrCacheEntryNotFound = errors.New("entrada de cache de cliente não encontrada")
)

// CustomerCacheRepository implementa a interface customer.CacheRepository
type CustomerCacheRepository struct {
	db *pgxpool.Pool
}

// NewCustomerCacheRepository cria uma nova instância de CustomerCacheRepository
func NewCustomerCacheRepository(db *pgxpool.Pool) customer.CacheRepository {
	return &CustomerCacheRepository{
		db: db,
	}
}

// Find implementa customer.CacheRepository.Find
func (r *CustomerCacheRepository) Find(ctx context.Context, companyID, nameKey string) (*customer.CacheEntry, error) {
	var e customer.CacheEntry
	err := r.db.QueryRow(ctx,
		`SELECT company_id, name_key, ca_customer_id, created_at, updated_at
		FROM customer_cache WHERE company_id = $1 AND name_key = $2`,
		companyID, nameKey).
		Scan(&e.CompanyID, &e.NameKey, &e.CaCustomerID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCacheEntryNotFound
		}
		return nil, fmt.Errorf("erro ao buscar cache de cliente: %w", err)
	}
	return &e, nil
}

// Upsert implementa customer.CacheRepository.Upsert
func (r *CustomerCacheRepository) Upsert(ctx context.Context, e *customer.CacheEntry) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO customer_cache (company_id, name_key, ca_customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (company_id, name_key)
		DO UPDATE SET ca_customer_id = EXCLUDED.ca_customer_id, updated_at = $5`,
		e.CompanyID, e.NameKey, e.CaCustomerID, e.CreatedAt, time.Now())
	if err != nil {
		return fmt.Errorf("erro ao salvar cache de cliente: %w", err)
	}
	return nil
}
