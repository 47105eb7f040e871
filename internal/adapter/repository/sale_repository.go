package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/sale"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Erros específicos do repositório
var (
	ErrSaleNotFound      = errors.New("venda não encontrada")
	ErrSaleDuplicateHash = errors.New("venda com mesmo hash já existe no batch")
	ErrSaleDatabaseError = errors.New("erro de banco de dados")
)

const saleColumns = `id, company_id, batch_id, group_key, hash_unique,
	sale_date, customer_name, payment_method, payment_terms,
	receiving_account, due_date, total_amount, status, error_summary,
	ca_sale_id, created_at, updated_at`

// SaleRepository implementa a interface sale.Repository
type SaleRepository struct {
	db *pgxpool.Pool
}

// NewSaleRepository cria uma nova instância de SaleRepository
func NewSaleRepository(db *pgxpool.Pool) sale.Repository {
	return &SaleRepository{
		db: db,
	}
}

// Create implementa sale.Repository.Create: a venda e seus itens são
// gravados em uma única transação
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale, items []*sale.SaleItem) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO sales (
			id, company_id, batch_id, group_key, hash_unique, sale_date,
			customer_name, payment_method, payment_terms, receiving_account,
			due_date, total_amount, status, error_summary, ca_sale_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		s.ID, s.CompanyID, s.BatchID, s.GroupKey, s.HashUnique, s.SaleDate,
		s.CustomerName, s.PaymentMethod, s.PaymentTerms, s.ReceivingAccount,
		s.DueDate, s.TotalAmount, s.Status, nullIfEmpty(s.ErrorSummary),
		nullIfEmpty(s.CaSaleID), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSaleDuplicateHash
		}
		return fmt.Errorf("erro ao criar venda: %w", err)
	}

	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.SaleID = s.ID

		_, err = tx.Exec(ctx,
			`INSERT INTO sale_items (
				id, sale_id, category, product_service, details, qty,
				unit_price, line_total
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, item.SaleID, nullIfEmpty(item.Category),
			item.ProductService, nullIfEmpty(item.Details), item.Qty,
			item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("erro ao criar item da venda: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// FindByID implementa sale.Repository.FindByID
func (r *SaleRepository) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)

	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("erro ao buscar venda: %w", err)
	}
	return s, nil
}

// FindItems implementa sale.Repository.FindItems
func (r *SaleRepository) FindItems(ctx context.Context, saleID string) ([]*sale.SaleItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sale_id, category, product_service, details, qty,
			unit_price, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY id ASC`, saleID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar itens: %w", err)
	}
	defer rows.Close()

	var items []*sale.SaleItem
	for rows.Next() {
		var item sale.SaleItem
		var category, details *string
		if err := rows.Scan(&item.ID, &item.SaleID, &category,
			&item.ProductService, &details, &item.Qty, &item.UnitPrice,
			&item.LineTotal); err != nil {
			return nil, fmt.Errorf("erro ao ler item: %w", err)
		}
		item.Category = deref(category)
		item.Details = deref(details)
		items = append(items, &item)
	}

	return items, rows.Err()
}

// List implementa sale.Repository.List
func (r *SaleRepository) List(ctx context.Context, f sale.Filter) ([]*sale.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	var args []interface{}

	if f.CompanyID != "" {
		args = append(args, f.CompanyID)
		query += fmt.Sprintf(" AND company_id = $%d", len(args))
	}
	if f.BatchID != "" {
		args = append(args, f.BatchID)
		query += fmt.Sprintf(" AND batch_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendas: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

// ExistsByHash implementa sale.Repository.ExistsByHash
func (r *SaleRepository) ExistsByHash(ctx context.Context, companyID, batchID, hashUnique string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM sales
			WHERE company_id = $1 AND batch_id = $2 AND hash_unique = $3
		)`, companyID, batchID, hashUnique).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("erro ao verificar hash: %w", err)
	}
	return exists, nil
}

// ListSendable implementa sale.Repository.ListSendable
func (r *SaleRepository) ListSendable(ctx context.Context, companyID, batchID string) ([]*sale.Sale, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+saleColumns+` FROM sales
		WHERE company_id = $1 AND batch_id = $2 AND status = ANY($3)
		ORDER BY created_at ASC, id ASC`,
		companyID, batchID, []string{string(sale.StatusReady), string(sale.StatusSendError)})
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendas enviáveis: %w", err)
	}
	defer rows.Close()

	return scanSales(rows)
}

// Update implementa sale.Repository.Update
func (r *SaleRepository) Update(ctx context.Context, s *sale.Sale) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sales SET status = $2, error_summary = $3, ca_sale_id = $4,
			updated_at = $5
		WHERE id = $1`,
		s.ID, s.Status, nullIfEmpty(s.ErrorSummary), nullIfEmpty(s.CaSaleID),
		time.Now())
	if err != nil {
		return fmt.Errorf("erro ao atualizar venda: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSaleNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSale(row rowScanner) (*sale.Sale, error) {
	var s sale.Sale
	var errorSummary, caSaleID *string

	err := row.Scan(
		&s.ID, &s.CompanyID, &s.BatchID, &s.GroupKey, &s.HashUnique,
		&s.SaleDate, &s.CustomerName, &s.PaymentMethod, &s.PaymentTerms,
		&s.ReceivingAccount, &s.DueDate, &s.TotalAmount, &s.Status,
		&errorSummary, &caSaleID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.ErrorSummary = deref(errorSummary)
	s.CaSaleID = deref(caSaleID)
	return &s, nil
}

func scanSales(rows pgx.Rows) ([]*sale.Sale, error) {
	var sales []*sale.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler venda: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
