package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RowRecord é uma linha da planilha já normalizada para os nomes
// canônicos de coluna. Quantidade e valor ficam como texto cru até a
// validação: a planilha vem de gente, não de sistema
type RowRecord struct {
	SaleDate *time.Time
	DueDate  *time.Time

	CustomerName     string
	PaymentMethod    string
	PaymentTerms     string
	ReceivingAccount string

	Category       string
	ProductService string
	Details        string

	Qty       string
	UnitPrice string
}

// parseDecimal converte um valor da planilha em decimal, aceitando
// vírgula como separador decimal
func parseDecimal(v string) (decimal.Decimal, bool) {
	v = strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
	if v == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// lineTotal calcula o total da linha arredondado a 2 casas decimais
// (arredondamento half-up, meio para longe do zero)
func lineTotal(qty, unit decimal.Decimal) decimal.Decimal {
	return qty.Mul(unit).Round(2)
}
