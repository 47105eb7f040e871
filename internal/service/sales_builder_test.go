package service

import (
	"context"
	"testing"
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/company"
	"github.com/bpoflow/vendas-backend/internal/domain/sale"
	"github.com/bpoflow/vendas-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCompany(reviewMode bool) *company.Company {
	c, _ := company.NewCompany("Clinica Exemplo")
	c.ReviewMode = reviewMode
	c.FinancialAccountID = "conta-padrao"
	c.DefaultItemID = "item-padrao"
	return c
}

func testRow(customer, product, qty, unit string) RowRecord {
	saleDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	return RowRecord{
		SaleDate:         &saleDate,
		DueDate:          &dueDate,
		CustomerName:     customer,
		PaymentMethod:    "PIX",
		PaymentTerms:     "À vista",
		ReceivingAccount: "Caixa",
		ProductService:   product,
		Qty:              qty,
		UnitPrice:        unit,
	}
}

func TestCreateSalesGrouping(t *testing.T) {
	comp := testCompany(false)
	companies := newFakeCompanyRepo(comp)
	sales := newFakeSaleRepo()
	builder := NewSalesBuilder(companies, sales, logger.NewLogger())

	records := []RowRecord{
		testRow("Maria Silva", "Consulta", "1", "100,00"),
		testRow("Maria Silva", "Retorno", "2", "50,00"),
		testRow("João Souza", "Consulta", "1", "100,00"),
	}

	result, err := builder.CreateSalesFromRecords(context.Background(), comp.ID, "batch-1", records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created, "linhas com os mesmos campos de agrupamento viram uma venda")
	assert.Equal(t, 2, result.Ready)
	assert.Zero(t, result.WithError)
	assert.Zero(t, result.RowErrors)

	created := sales.inOrder()
	require.Len(t, created, 2)

	maria := created[0]
	assert.Equal(t, "Maria Silva", maria.CustomerName)
	assert.Equal(t, sale.StatusReady, maria.Status)
	assert.Equal(t, "200.00", maria.TotalAmount.StringFixed(2))
	assert.Len(t, sales.items[maria.ID], 2)

	joao := created[1]
	assert.Equal(t, "João Souza", joao.CustomerName)
	assert.Equal(t, "100.00", joao.TotalAmount.StringFixed(2))
	assert.Len(t, sales.items[joao.ID], 1)
}

func TestReimportIsIdempotent(t *testing.T) {
	comp := testCompany(false)
	companies := newFakeCompanyRepo(comp)
	sales := newFakeSaleRepo()
	builder := NewSalesBuilder(companies, sales, logger.NewLogger())

	records := []RowRecord{
		testRow("Maria Silva", "Consulta", "1", "100,00"),
		testRow("João Souza", "Consulta", "1", "100,00"),
	}

	first, err := builder.CreateSalesFromRecords(context.Background(), comp.ID, "batch-1", records)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := builder.CreateSalesFromRecords(context.Background(), comp.ID, "batch-1", records)
	require.NoError(t, err)
	assert.Zero(t, second.Created, "reimporte do mesmo conteúdo no mesmo batch não cria venda")
	assert.Len(t, sales.sales, 2)
}

func TestInvalidRowsAggregateIntoOneErrorSale(t *testing.T) {
	comp := testCompany(false)
	companies := newFakeCompanyRepo(comp)
	sales := newFakeSaleRepo()
	builder := NewSalesBuilder(companies, sales, logger.NewLogger())

	// Duas linhas do mesmo grupo com o mesmo problema de quantidade
	bad1 := testRow("Maria Silva", "Consulta", "0", "100,00")
	bad2 := testRow("Maria Silva", "Retorno", "abc", "100,00")

	result, err := builder.CreateSalesFromRecords(context.Background(), comp.ID, "batch-1", []RowRecord{bad1, bad2})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.WithError)
	assert.Equal(t, 2, result.RowErrors)

	created := sales.inOrder()
	require.Len(t, created, 1)
	assert.Equal(t, sale.StatusError, created[0].Status)
	// Mensagens repetidas aparecem uma única vez no resumo
	assert.Equal(t, msgInvalidQty, created[0].ErrorSummary)
}

func TestErrorSummaryAggregatesDistinctMessages(t *testing.T) {
	comp := testCompany(false)
	companies := newFakeCompanyRepo(comp)
	sales := newFakeSaleRepo()
	builder := NewSalesBuilder(companies, sales, logger.NewLogger())

	// Mesmo grupo com problemas diferentes: quantidade zerada, valor
	// não numérico e a quantidade zerada repetida em outra linha
	records := []RowRecord{
		testRow("Maria Silva", "Consulta", "0", "100,00"),
		testRow("Maria Silva", "Retorno", "1", "abc"),
		testRow("Maria Silva", "Exame", "0", "100,00"),
	}

	result, err := builder.CreateSalesFromRecords(context.Background(), comp.ID, "batch-1", records)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.WithError)
	assert.Equal(t, 3, result.RowErrors)

	created := sales.inOrder()
	require.Len(t, created, 1)
	assert.Equal(t, sale.StatusError, created[0].Status)
	// Cada mensagem distinta aparece uma vez, em ordem alfabética
	assert.Equal(t, msgInvalidQty+"; "+msgInvalidUnitPrice, created[0].ErrorSummary)
}

func TestLineTotalRounding(t *testing.T) {
	comp := testCompany(false)
	companies := newFakeCompanyRepo(comp)
	sales := newFakeSaleRepo()
	builder := NewSalesBuilder(companies, sales, logger.NewLogger())

	// 3 x 10,005 = 30,015 -> arredonda meio para longe do zero
	records := []RowRecord{testRow("Maria Silva", "Consulta", "3", "10,005")}

	result, err := builder.CreateSalesFromRecords(context.Background(), comp.ID, "batch-1", records)
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	created := sales.inOrder()
	assert.Equal(t, "30.02", created[0].TotalAmount.StringFixed(2))
}

func TestReviewModeHoldsSalesForApproval(t *testing.T) {
	comp := testCompany(true)
	companies := newFakeCompanyRepo(comp)
	sales := newFakeSaleRepo()
	builder := NewSalesBuilder(companies, sales, logger.NewLogger())

	records := []RowRecord{testRow("Maria Silva", "Consulta", "1", "100,00")}

	result, err := builder.CreateSalesFromRecords(context.Background(), comp.ID, "batch-1", records)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Awaiting)
	assert.Zero(t, result.Ready)

	created := sales.inOrder()
	assert.Equal(t, sale.StatusAwaitingApproval, created[0].Status)
}

func TestGroupKeySeparatesDifferentDueDates(t *testing.T) {
	comp := testCompany(false)
	companies := newFakeCompanyRepo(comp)
	sales := newFakeSaleRepo()
	builder := NewSalesBuilder(companies, sales, logger.NewLogger())

	r1 := testRow("Maria Silva", "Consulta", "1", "100,00")
	r2 := testRow("Maria Silva", "Consulta", "1", "100,00")
	otherDue := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	r2.DueDate = &otherDue

	result, err := builder.CreateSalesFromRecords(context.Background(), comp.ID, "batch-1", []RowRecord{r1, r2})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created, "vencimentos diferentes separam as vendas")
}
