package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/company"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrMappingNotFound = errors.New("mapeamento de conta não encontrado")
)

// MappingRepository implementa a interface company.MappingRepository
type MappingRepository struct {
	db *pgxpool.Pool
}

// NewMappingRepository cria uma nova instância de MappingRepository
func NewMappingRepository(db *pgxpool.Pool) company.MappingRepository {
	return &MappingRepository{
		db: db,
	}
}

// Upsert implementa company.MappingRepository.Upsert
func (r *MappingRepository) Upsert(ctx context.Context, m *company.AccountMapping) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO company_account_mappings (
			company_id, payment_method_key, ca_financial_account_id, created_at
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, payment_method_key)
		DO UPDATE SET ca_financial_account_id = EXCLUDED.ca_financial_account_id`,
		m.CompanyID, m.PaymentMethodKey, m.FinancialAccountID, time.Now())
	if err != nil {
		return fmt.Errorf("erro ao salvar mapeamento de conta: %w", err)
	}
	return nil
}

// FindByCompany implementa company.MappingRepository.FindByCompany
func (r *MappingRepository) FindByCompany(ctx context.Context, companyID string) ([]*company.AccountMapping, error) {
	rows, err := r.db.Query(ctx,
		`SELECT company_id, payment_method_key, ca_financial_account_id, created_at
		FROM company_account_mappings
		WHERE company_id = $1 ORDER BY payment_method_key ASC`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar mapeamentos: %w", err)
	}
	defer rows.Close()

	var mappings []*company.AccountMapping
	for rows.Next() {
		var m company.AccountMapping
		if err := rows.Scan(&m.CompanyID, &m.PaymentMethodKey, &m.FinancialAccountID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler mapeamento: %w", err)
		}
		mappings = append(mappings, &m)
	}

	return mappings, rows.Err()
}

// FindByMethod implementa company.MappingRepository.FindByMethod
func (r *MappingRepository) FindByMethod(ctx context.Context, companyID, paymentMethodKey string) (*company.AccountMapping, error) {
	var m company.AccountMapping
	err := r.db.QueryRow(ctx,
		`SELECT company_id, payment_method_key, ca_financial_account_id, created_at
		FROM company_account_mappings
		WHERE company_id = $1 AND payment_method_key = $2`,
		companyID, paymentMethodKey).
		Scan(&m.CompanyID, &m.PaymentMethodKey, &m.FinancialAccountID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMappingNotFound
		}
		return nil, fmt.Errorf("erro ao buscar mapeamento: %w", err)
	}
	return &m, nil
}

// Delete implementa company.MappingRepository.Delete
func (r *MappingRepository) Delete(ctx context.Context, companyID, paymentMethodKey string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM company_account_mappings
		WHERE company_id = $1 AND payment_method_key = $2`,
		companyID, paymentMethodKey)
	if err != nil {
		return fmt.Errorf("erro ao excluir mapeamento: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMappingNotFound
	}
	return nil
}
