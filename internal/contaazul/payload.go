package contaazul

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bpoflow/vendas-backend/internal/domain/sale"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Chaves normalizadas de forma de pagamento, no vocabulário da API
const (
	PaymentPix          = "PIX_PAGAMENTO_INSTANTANEO"
	PaymentBoleto       = "BOLETO_BANCARIO"
	PaymentCardCredit   = "CARTAO_CREDITO"
	PaymentCardDebit    = "CARTAO_DEBITO"
	PaymentBankTransfer = "TRANSFERENCIA_BANCARIA"
	PaymentCash         = "DINHEIRO"
	PaymentOther        = "OUTRO"
)

var paymentAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizePaymentMethod resolve o texto livre da planilha para a
// enumeração fixa da API por busca de substring na forma normalizada.
// Texto não reconhecido vira OUTRO: a forma de pagamento vem digitada
// pelo usuário e não vale rejeitar a venda por causa dela
func NormalizePaymentMethod(raw string) string {
	s, _, err := transform.String(paymentAccents, raw)
	if err != nil {
		s = raw
	}
	s = strings.ToUpper(strings.TrimSpace(s))

	switch {
	case strings.Contains(s, "PIX"):
		return PaymentPix
	case strings.Contains(s, "BOLETO"):
		return PaymentBoleto
	case strings.Contains(s, "CREDITO"):
		return PaymentCardCredit
	case strings.Contains(s, "DEBITO"):
		return PaymentCardDebit
	case strings.Contains(s, "TRANSFER"):
		return PaymentBankTransfer
	case strings.Contains(s, "DINHEIRO"):
		return PaymentCash
	default:
		return PaymentOther
	}
}

// InstallmentCount extrai o número de parcelas da condição de
// pagamento ("à vista" -> 1, "3x" -> 3); fallback de 1 parcela
func InstallmentCount(paymentTerms string) int {
	t, _, err := transform.String(paymentAccents, paymentTerms)
	if err != nil {
		t = paymentTerms
	}
	t = strings.ToUpper(strings.TrimSpace(t))
	if strings.Contains(t, "A VISTA") {
		return 1
	}

	var digits strings.Builder
	for _, r := range t {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 1
	}

	n := 0
	fmt.Sscanf(digits.String(), "%d", &n)
	if n < 1 {
		return 1
	}
	return n
}

// ResolveFinancialAccount resolve a conta financeira da venda:
// primeiro o mapeamento específico da forma de pagamento, depois a
// conta padrão da company. Sem nenhuma das duas é erro de configuração,
// detectado antes de qualquer chamada remota para não consumir um
// número de venda à toa
func ResolveFinancialAccount(mappings map[string]string, paymentMethodKey, defaultAccountID string) (string, error) {
	if id, ok := mappings[paymentMethodKey]; ok && id != "" {
		return id, nil
	}
	if defaultAccountID != "" {
		return defaultAccountID, nil
	}
	return "", &ConfigurationError{Missing: "conta financeira (mapeamento ou ca_financial_account_id)"}
}

// BuildOptions são os identificadores já resolvidos que o builder
// injeta no payload
type BuildOptions struct {
	CustomerID         string
	Number             int
	FinancialAccountID string
	DefaultItemID      string
}

// BuildSalePayload monta o corpo de POST /v1/venda a partir da venda
// agrupada. Função pura: toda resolução remota acontece antes
func BuildSalePayload(s *sale.Sale, items []*sale.SaleItem, opts BuildOptions) (*SalePayload, error) {
	if opts.CustomerID == "" {
		return nil, &ConfigurationError{Missing: "id do cliente no Conta Azul"}
	}
	if opts.FinancialAccountID == "" {
		return nil, &ConfigurationError{Missing: "conta financeira da venda"}
	}
	if opts.DefaultItemID == "" {
		return nil, &ConfigurationError{Missing: "item padrão da company (default_item_id)"}
	}
	if len(items) == 0 {
		return nil, &ConfigurationError{Missing: "itens da venda"}
	}

	itens := make([]ItemPayload, 0, len(items))
	for _, i := range items {
		qty, _ := i.Qty.Float64()
		unit, _ := i.UnitPrice.Float64()
		itens = append(itens, ItemPayload{
			ID:         opts.DefaultItemID,
			Descricao:  i.ProductService,
			Quantidade: qty,
			Valor:      unit,
		})
	}

	parcelas := InstallmentCount(s.PaymentTerms)
	opcao := "À vista"
	if parcelas > 1 {
		opcao = fmt.Sprintf("%dx", parcelas)
	}

	return &SalePayload{
		Situacao:    "EM_ANDAMENTO",
		DataVenda:   s.SaleDate.Format("2006-01-02"),
		Observacoes: "Venda importada automaticamente.",
		IDCliente:   opts.CustomerID,
		Numero:      fmt.Sprintf("%d", opts.Number),
		Itens:       itens,
		CondicaoPagamento: CondicaoPagamento{
			TipoPagamento:          NormalizePaymentMethod(s.PaymentMethod),
			OpcaoCondicaoPagamento: opcao,
			IDContaFinanceira:      opts.FinancialAccountID,
			Parcelas:               buildParcelas(s.TotalAmount, s.DueDate.Format("2006-01-02"), parcelas),
		},
	}, nil
}

// buildParcelas divide o total em parcelas iguais arredondadas a 2 casas
func buildParcelas(total decimal.Decimal, dueDate string, n int) []Parcela {
	valor, _ := total.Div(decimal.NewFromInt(int64(n))).Round(2).Float64()
	parcelas := make([]Parcela, 0, n)
	for i := 0; i < n; i++ {
		parcelas = append(parcelas, Parcela{DataVencimento: dueDate, Valor: valor})
	}
	return parcelas
}
