package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/bpoflow/vendas-backend/internal/domain/company"
	"github.com/bpoflow/vendas-backend/internal/domain/sale"
	"github.com/bpoflow/vendas-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// ImportResult agrega os contadores da importação de um lote de linhas
type ImportResult struct {
	Created   int `json:"created"`
	Ready     int `json:"ready"`
	Awaiting  int `json:"awaiting"`
	WithError int `json:"with_error"`
	RowErrors int `json:"row_errors"`
}

// SalesBuilder agrupa linhas validadas da planilha em vendas
// deduplicadas por hash de conteúdo. Linhas com os mesmos seis campos
// de agrupamento (data, cliente, forma, condição, conta, vencimento)
// são itens de uma mesma venda; o hash sobre a chave de grupo mais a
// assinatura dos itens impede que um reimporte do mesmo arquivo crie
// vendas duplicadas no mesmo batch
type SalesBuilder struct {
	companies company.Repository
	sales     sale.Repository
	log       logger.Logger
}

// NewSalesBuilder cria uma nova instância de SalesBuilder
func NewSalesBuilder(companies company.Repository, sales sale.Repository, log logger.Logger) *SalesBuilder {
	return &SalesBuilder{
		companies: companies,
		sales:     sales,
		log:       log,
	}
}

// rowGroup acumula as linhas de uma mesma chave de grupo na ordem de
// entrada
type rowGroup struct {
	key  string
	rows []RowRecord
}

// CreateSalesFromRecords cria Sales e SaleItems a partir das linhas
// importadas. Grupos cujo hash já existe no escopo (company, batch)
// são pulados por inteiro; grupos com qualquer linha inválida geram
// exatamente uma venda ERRO com o resumo agregado dos problemas
func (b *SalesBuilder) CreateSalesFromRecords(ctx context.Context, companyID, batchID string, records []RowRecord) (*ImportResult, error) {
	comp, err := b.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar company: %w", err)
	}

	result := &ImportResult{}

	// Agrupar preservando a ordem de primeira aparição de cada chave,
	// para resultado determinístico
	groups := make(map[string]*rowGroup)
	var order []string
	for _, row := range records {
		if len(ValidateRow(row)) > 0 {
			result.RowErrors++
		}
		key := buildGroupKey(row)
		g, ok := groups[key]
		if !ok {
			g = &rowGroup{key: key}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	for _, key := range order {
		g := groups[key]

		var sigParts []string
		var errorMsgs []string
		total := decimal.Zero

		for _, r := range g.rows {
			errorMsgs = append(errorMsgs, ValidateRow(r)...)

			qty, _ := parseDecimal(r.Qty)
			unit, _ := parseDecimal(r.UnitPrice)
			total = total.Add(lineTotal(qty, unit))

			sigParts = append(sigParts, fmt.Sprintf("%s|%s|%s", r.ProductService, qty.String(), unit.String()))
		}

		hashUnique := hashGroup(g.key, strings.Join(sigParts, "||"))

		exists, err := b.sales.ExistsByHash(ctx, companyID, batchID, hashUnique)
		if err != nil {
			return nil, fmt.Errorf("erro ao verificar duplicidade: %w", err)
		}
		if exists {
			// Reimporte idempotente: conteúdo idêntico não cria venda nova
			continue
		}

		first := g.rows[0]
		s := sale.NewSale(companyID, batchID, g.key, hashUnique)
		if first.SaleDate != nil {
			s.SaleDate = *first.SaleDate
		}
		if first.DueDate != nil {
			s.DueDate = *first.DueDate
		}
		s.CustomerName = first.CustomerName
		s.PaymentMethod = first.PaymentMethod
		s.PaymentTerms = first.PaymentTerms
		s.ReceivingAccount = first.ReceivingAccount
		s.TotalAmount = total

		if len(errorMsgs) > 0 {
			s.Status = sale.StatusError
			s.ErrorSummary = sale.TruncateError(summarize(errorMsgs))
			result.WithError++
		} else if comp.ReviewMode {
			s.Status = sale.StatusAwaitingApproval
			result.Awaiting++
		} else {
			s.Status = sale.StatusReady
			result.Ready++
		}

		items := make([]*sale.SaleItem, 0, len(g.rows))
		for _, r := range g.rows {
			qty, _ := parseDecimal(r.Qty)
			unit, _ := parseDecimal(r.UnitPrice)
			product := r.ProductService
			if product == "" {
				product = "-"
			}
			items = append(items, &sale.SaleItem{
				SaleID:         s.ID,
				Category:       r.Category,
				ProductService: product,
				Details:        r.Details,
				Qty:            qty,
				UnitPrice:      unit,
				LineTotal:      lineTotal(qty, unit),
			})
		}

		if err := b.sales.Create(ctx, s, items); err != nil {
			return nil, fmt.Errorf("erro ao criar venda: %w", err)
		}

		result.Created++
	}

	b.log.Info("importação concluída",
		"company_id", companyID, "batch_id", batchID,
		"created", result.Created, "with_error", result.WithError)

	return result, nil
}

// buildGroupKey monta a chave composta dos seis campos que distinguem
// uma venda de outra dentro do batch
func buildGroupKey(r RowRecord) string {
	saleDate := ""
	if r.SaleDate != nil {
		saleDate = r.SaleDate.Format("2006-01-02")
	}
	dueDate := ""
	if r.DueDate != nil {
		dueDate = r.DueDate.Format("2006-01-02")
	}

	return strings.Join([]string{
		saleDate,
		strings.TrimSpace(r.CustomerName),
		strings.TrimSpace(r.PaymentMethod),
		strings.TrimSpace(r.PaymentTerms),
		strings.TrimSpace(r.ReceivingAccount),
		dueDate,
	}, "|")
}

// hashGroup calcula o hash de conteúdo da venda: SHA-256 sobre a chave
// de grupo e a assinatura ordenada dos itens
func hashGroup(groupKey, itemsSignature string) string {
	sum := sha256.Sum256([]byte(groupKey + "::" + itemsSignature))
	return hex.EncodeToString(sum[:])
}

// summarize deduplica e ordena as mensagens de erro do grupo
func summarize(msgs []string) string {
	seen := make(map[string]struct{}, len(msgs))
	var distinct []string
	for _, m := range msgs {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		distinct = append(distinct, m)
	}
	sort.Strings(distinct)
	return strings.Join(distinct, "; ")
}
