package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/bpoflow/vendas-backend/internal/domain/batch"
	"github.com/bpoflow/vendas-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmptySpreadsheet = errors.New("planilha sem linhas de dados")
	ErrMissingColumns   = errors.New("planilha sem as colunas obrigatórias")
)

// Colunas canônicas esperadas pelo resto do sistema
const (
	colSaleDate       = "DATA ATENDIMENTO"
	colCustomer       = "CLIENTE / PACIENTE"
	colCategory       = "CATEGORIA"
	colProduct        = "PRODUTOS/SERVIÇOS"
	colDetails        = "DETALHES DO ITEM"
	colQty            = "QUANTIDADE"
	colUnitPrice      = "VALOR UNITARIO"
	colPaymentMethod  = "FORMA DE PAGAMENTO"
	colAccount        = "CONTA DE RECEBIMENTO"
	colPaymentTerms   = "CONDICAO DE PAGAMENTO"
	colDueDate        = "VENCIMENTO"
)

// columnAliases aceita os layouts reais que as empresas mandam
var columnAliases = map[string][]string{
	colSaleDate:      {"DATA ATENDIMENTO", "DATA", "DATA DA VENDA", "DATA VENDA"},
	colCustomer:      {"CLIENTE PACIENTE", "CLIENTE", "PACIENTE", "NOME", "NOME DO CLIENTE"},
	colCategory:      {"CATEGORIA", "CATEGORIAS"},
	colProduct:       {"PRODUTOS SERVICOS", "PRODUTOS", "SERVICOS", "PRODUTOS E SERVICOS"},
	colDetails:       {"DETALHES DO ITEM", "DETALHES", "OBS", "OBSERVACAO"},
	colQty:           {"QUANTIDADE", "QTD", "QTDE"},
	colUnitPrice:     {"VALOR UNITARIO", "VALOR", "PRECO", "VALOR UN"},
	colPaymentMethod: {"FORMA DE PAGAMENTO", "PAGAMENTO", "MEIO DE PAGAMENTO"},
	colAccount:       {"CONTA DE RECEBIMENTO", "CONTA", "CONTA RECEBIMENTO"},
	colPaymentTerms:  {"CONDICAO DE PAGAMENTO", "CONDICAO", "PARCELAS"},
	colDueDate:       {"VENCIMENTO", "DATA VENCIMENTO", "VENC", "DUE DATE"},
}

// requiredColumns precisam existir no cabeçalho para a planilha valer
var requiredColumns = []string{colSaleDate, colCustomer, colQty, colUnitPrice}

var headerAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeColumn normaliza um nome de coluna para comparação robusta:
// maiúsculas, sem acento, separadores viram espaço, espaços colapsados
func NormalizeColumn(col string) string {
	s, _, err := transform.String(headerAccents, col)
	if err != nil {
		s = col
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("/", " ", "-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Importer lê o XLSX enviado, normaliza as colunas por alias e entrega
// as linhas canônicas ao SalesBuilder dentro de um batch novo
type Importer struct {
	batches batch.Repository
	builder *SalesBuilder
	log     logger.Logger
}

// NewImporter cria um novo Importer
func NewImporter(batches batch.Repository, builder *SalesBuilder, log logger.Logger) *Importer {
	return &Importer{
		batches: batches,
		builder: builder,
		log:     log,
	}
}

// ImportFile processa um upload completo: registra o batch, converte a
// planilha em linhas canônicas e dispara o agrupamento. Planilha vazia
// é rejeitada aqui, antes do motor de agrupamento
func (i *Importer) ImportFile(ctx context.Context, companyID, filename string, r io.Reader) (*batch.Batch, *ImportResult, error) {
	records, err := ParseXLSX(r)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptySpreadsheet
	}

	b, err := batch.NewBatch(companyID, filename)
	if err != nil {
		return nil, nil, err
	}
	if err := i.batches.Create(ctx, b); err != nil {
		return nil, nil, fmt.Errorf("erro ao registrar batch: %w", err)
	}

	result, err := i.builder.CreateSalesFromRecords(ctx, companyID, b.ID, records)
	if err != nil {
		if statusErr := i.batches.UpdateStatus(ctx, b.ID, batch.StatusFailed); statusErr != nil {
			i.log.Error("erro ao marcar batch como falho", "batch_id", b.ID, "error", statusErr)
		}
		return b, nil, err
	}

	i.log.Info("upload processado", "batch_id", b.ID, "rows", len(records))
	return b, result, nil
}

// ParseXLSX lê a primeira aba da planilha e converte as linhas para o
// formato canônico
func ParseXLSX(r io.Reader) ([]RowRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir planilha: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySpreadsheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("erro ao ler linhas da planilha: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySpreadsheet
	}

	index, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]RowRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		records = append(records, RowRecord{
			SaleDate:         parseDate(cell(row, index, colSaleDate)),
			DueDate:          parseDate(cell(row, index, colDueDate)),
			CustomerName:     cell(row, index, colCustomer),
			PaymentMethod:    cell(row, index, colPaymentMethod),
			PaymentTerms:     cell(row, index, colPaymentTerms),
			ReceivingAccount: cell(row, index, colAccount),
			Category:         cell(row, index, colCategory),
			ProductService:   cell(row, index, colProduct),
			Details:          cell(row, index, colDetails),
			Qty:              cell(row, index, colQty),
			UnitPrice:        cell(row, index, colUnitPrice),
		})
	}

	return records, nil
}

// mapHeader resolve cada coluna canônica para o índice real no
// cabeçalho usando a tabela de aliases
func mapHeader(header []string) (map[string]int, error) {
	normalized := make(map[string]int, len(header))
	for idx, h := range header {
		normalized[NormalizeColumn(h)] = idx
	}

	index := make(map[string]int, len(columnAliases))
	for canonical, aliases := range columnAliases {
		if idx, ok := normalized[NormalizeColumn(canonical)]; ok {
			index[canonical] = idx
			continue
		}
		for _, alias := range aliases {
			if idx, ok := normalized[NormalizeColumn(alias)]; ok {
				index[canonical] = idx
				break
			}
		}
	}

	for _, required := range requiredColumns {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumns, required)
		}
	}

	return index, nil
}

func cell(row []string, index map[string]int, canonical string) string {
	idx, ok := index[canonical]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// dateLayouts cobre os formatos que o excelize devolve conforme a
// formatação da célula
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02/01/06",
	"2006-01-02 15:04:05",
	"01-02-06",
}

func parseDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
