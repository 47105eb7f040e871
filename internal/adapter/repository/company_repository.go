package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/company"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrCompanyNotFound      = errors.New("company não encontrada")
	ErrCompanyDuplicateName = errors.New("company com mesmo nome já existe")
	ErrCompanyDatabaseError = errors.New("erro de banco de dados")
)

// CompanyRepository implementa a interface company.Repository
type CompanyRepository struct {
	db *pgxpool.Pool
}

// NewCompanyRepository cria uma nova instância de CompanyRepository
func NewCompanyRepository(db *pgxpool.Pool) company.Repository {
	return &CompanyRepository{
		db: db,
	}
}

// Create implementa company.Repository.Create
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO companies (
			id, name, review_mode, access_token, refresh_token,
			token_expires_at, ca_financial_account_id, default_item_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Name, c.ReviewMode, nullIfEmpty(c.AccessToken),
		nullIfEmpty(c.RefreshToken), c.TokenExpiresAt,
		nullIfEmpty(c.FinancialAccountID), nullIfEmpty(c.DefaultItemID),
		c.CreatedAt, c.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrCompanyDuplicateName
		}
		return fmt.Errorf("erro ao criar company: %w", err)
	}

	return nil
}

// FindByID implementa company.Repository.FindByID
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*company.Company, error) {
	return r.scanOne(ctx,
		`SELECT id, name, review_mode, access_token, refresh_token,
			token_expires_at, ca_financial_account_id, default_item_id,
			created_at, updated_at
		FROM companies WHERE id = $1`, id)
}

// FindByName implementa company.Repository.FindByName
func (r *CompanyRepository) FindByName(ctx context.Context, name string) (*company.Company, error) {
	return r.scanOne(ctx,
		`SELECT id, name, review_mode, access_token, refresh_token,
			token_expires_at, ca_financial_account_id, default_item_id,
			created_at, updated_at
		FROM companies WHERE name = $1`, name)
}

func (r *CompanyRepository) scanOne(ctx context.Context, query string, arg interface{}) (*company.Company, error) {
	var c company.Company
	var accessToken, refreshToken, financialAccountID, defaultItemID *string
	var tokenExpiresAt *time.Time

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Name, &c.ReviewMode, &accessToken, &refreshToken,
		&tokenExpiresAt, &financialAccountID, &defaultItemID,
		&c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("erro ao buscar company: %w", err)
	}

	c.AccessToken = deref(accessToken)
	c.RefreshToken = deref(refreshToken)
	c.TokenExpiresAt = tokenExpiresAt
	c.FinancialAccountID = deref(financialAccountID)
	c.DefaultItemID = deref(defaultItemID)

	return &c, nil
}

// List implementa company.Repository.List
func (r *CompanyRepository) List(ctx context.Context, limit, offset int) ([]*company.Company, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, review_mode, access_token, refresh_token,
			token_expires_at, ca_financial_account_id, default_item_id,
			created_at, updated_at
		FROM companies ORDER BY created_at ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar companies: %w", err)
	}
	defer rows.Close()

	var companies []*company.Company
	for rows.Next() {
		var c company.Company
		var accessToken, refreshToken, financialAccountID, defaultItemID *string
		var tokenExpiresAt *time.Time

		if err := rows.Scan(
			&c.ID, &c.Name, &c.ReviewMode, &accessToken, &refreshToken,
			&tokenExpiresAt, &financialAccountID, &defaultItemID,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler company: %w", err)
		}

		c.AccessToken = deref(accessToken)
		c.RefreshToken = deref(refreshToken)
		c.TokenExpiresAt = tokenExpiresAt
		c.FinancialAccountID = deref(financialAccountID)
		c.DefaultItemID = deref(defaultItemID)

		companies = append(companies, &c)
	}

	return companies, rows.Err()
}

// Update implementa company.Repository.Update
func (r *CompanyRepository) Update(ctx context.Context, c *company.Company) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE companies SET name = $2, review_mode = $3, updated_at = $4
		WHERE id = $1`,
		c.ID, c.Name, c.ReviewMode, time.Now())
	if err != nil {
		return fmt.Errorf("erro ao atualizar company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// Delete implementa company.Repository.Delete
func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erro ao excluir company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// GetTokens implementa company.Repository.GetTokens
func (r *CompanyRepository) GetTokens(ctx context.Context, id string) (*company.TokenTriple, error) {
	var accessToken, refreshToken *string
	var expiresAt *time.Time

	err := r.db.QueryRow(ctx,
		`SELECT access_token, refresh_token, token_expires_at
		FROM companies WHERE id = $1`, id).
		Scan(&accessToken, &refreshToken, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("erro ao buscar tokens: %w", err)
	}

	triple := &company.TokenTriple{
		AccessToken:  deref(accessToken),
		RefreshToken: deref(refreshToken),
	}
	if expiresAt != nil {
		triple.ExpiresAt = *expiresAt
	}
	return triple, nil
}

// UpdateTokens implementa company.Repository.UpdateTokens.
// A linha da company é bloqueada (SELECT ... FOR UPDATE) durante a
// escrita para reduzir o risco de lost update entre renovadores
// concorrentes do mesmo token
func (r *CompanyRepository) UpdateTokens(ctx context.Context, id string, t *company.TokenTriple) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback(ctx)

	var existing string
	err = tx.QueryRow(ctx, `SELECT id FROM companies WHERE id = $1 FOR UPDATE`, id).Scan(&existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("erro ao bloquear company: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE companies SET access_token = $2, refresh_token = $3,
			token_expires_at = $4, updated_at = $5
		WHERE id = $1`,
		id, t.AccessToken, t.RefreshToken, t.ExpiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("erro ao salvar tokens: %w", err)
	}

	return tx.Commit(ctx)
}

// UpdateFinancialAccount implementa company.Repository.UpdateFinancialAccount
func (r *CompanyRepository) UpdateFinancialAccount(ctx context.Context, id, financialAccountID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE companies SET ca_financial_account_id = $2, updated_at = $3 WHERE id = $1`,
		id, financialAccountID, time.Now())
	if err != nil {
		return fmt.Errorf("erro ao salvar conta financeira: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// UpdateDefaultItem implementa company.Repository.UpdateDefaultItem
func (r *CompanyRepository) UpdateDefaultItem(ctx context.Context, id, defaultItemID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE companies SET default_item_id = $2, updated_at = $3 WHERE id = $1`,
		id, defaultItemID, time.Now())
	if err != nil {
		return fmt.Errorf("erro ao salvar item padrão: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// Count implementa company.Repository.Count
func (r *CompanyRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("erro ao contar companies: %w", err)
	}
	return count, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
