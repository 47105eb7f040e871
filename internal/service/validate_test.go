package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRow() RowRecord {
	saleDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	return RowRecord{
		SaleDate:         &saleDate,
		DueDate:          &dueDate,
		CustomerName:     "Maria Silva",
		PaymentMethod:    "PIX",
		PaymentTerms:     "À vista",
		ReceivingAccount: "Caixa",
		ProductService:   "Consulta",
		Qty:              "1",
		UnitPrice:        "100,00",
	}
}

func TestValidateRowOK(t *testing.T) {
	assert.Empty(t, ValidateRow(validRow()))
}

func TestValidateRowFieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RowRecord)
		want   string
	}{
		{"sem data", func(r *RowRecord) { r.SaleDate = nil }, msgMissingSaleDate},
		{"sem cliente", func(r *RowRecord) { r.CustomerName = "" }, msgMissingCustomer},
		{"quantidade zero", func(r *RowRecord) { r.Qty = "0" }, msgInvalidQty},
		{"quantidade negativa", func(r *RowRecord) { r.Qty = "-1" }, msgInvalidQty},
		{"quantidade não numérica", func(r *RowRecord) { r.Qty = "abc" }, msgInvalidQty},
		{"valor negativo", func(r *RowRecord) { r.UnitPrice = "-5" }, msgInvalidUnitPrice},
		{"valor não numérico", func(r *RowRecord) { r.UnitPrice = "x" }, msgInvalidUnitPrice},
		{"sem forma de pagamento", func(r *RowRecord) { r.PaymentMethod = "" }, msgMissingPaymentMethod},
		{"sem condição", func(r *RowRecord) { r.PaymentTerms = "" }, msgMissingPaymentTerms},
		{"sem conta", func(r *RowRecord) { r.ReceivingAccount = "" }, msgMissingAccount},
		{"sem vencimento", func(r *RowRecord) { r.DueDate = nil }, msgMissingDueDate},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := validRow()
			c.mutate(&r)
			assert.Contains(t, ValidateRow(r), c.want)
		})
	}
}

func TestValidateRowDueBeforeSale(t *testing.T) {
	r := validRow()
	early := r.SaleDate.AddDate(0, 0, -1)
	r.DueDate = &early

	assert.Contains(t, ValidateRow(r), msgDueBeforeSale)
}

func TestValidateRowValueZeroIsAllowed(t *testing.T) {
	r := validRow()
	r.UnitPrice = "0"

	assert.Empty(t, ValidateRow(r))
}

func TestParseDecimalAcceptsComma(t *testing.T) {
	d, ok := parseDecimal("10,50")
	assert.True(t, ok)
	assert.Equal(t, "10.50", d.StringFixed(2))

	_, ok = parseDecimal("")
	assert.False(t, ok)

	_, ok = parseDecimal("dez")
	assert.False(t, ok)
}
