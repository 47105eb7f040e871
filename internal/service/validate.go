package service

// Mensagens de validação por campo, no vocabulário das colunas
// canônicas da planilha
const (
	msgMissingSaleDate      = "DATA ATENDIMENTO obrigatório."
	msgMissingCustomer      = "CLIENTE / PACIENTE obrigatório."
	msgInvalidQty           = "QUANTIDADE deve ser numérica e > 0."
	msgInvalidUnitPrice     = "VALOR UNITARIO deve ser numérico e >= 0."
	msgMissingPaymentMethod = "FORMA DE PAGAMENTO obrigatório."
	msgMissingPaymentTerms  = "CONDICAO DE PAGAMENTO obrigatório."
	msgMissingAccount       = "CONTA DE RECEBIMENTO obrigatório."
	msgMissingDueDate       = "VENCIMENTO obrigatório."
	msgDueBeforeSale        = "VENCIMENTO não pode ser anterior à DATA ATENDIMENTO."
)

// ValidateRow aplica as regras de campo em uma linha e retorna as
// mensagens de erro encontradas. Mensagens são valores, não erros: a
// importação de um lote misto segue adiante e agrega os problemas no
// resumo da venda
func ValidateRow(r RowRecord) []string {
	var errs []string

	if r.SaleDate == nil {
		errs = append(errs, msgMissingSaleDate)
	}
	if r.CustomerName == "" {
		errs = append(errs, msgMissingCustomer)
	}

	if qty, ok := parseDecimal(r.Qty); !ok || !qty.IsPositive() {
		errs = append(errs, msgInvalidQty)
	}
	if unit, ok := parseDecimal(r.UnitPrice); !ok || unit.IsNegative() {
		errs = append(errs, msgInvalidUnitPrice)
	}

	if r.PaymentMethod == "" {
		errs = append(errs, msgMissingPaymentMethod)
	}
	if r.PaymentTerms == "" {
		errs = append(errs, msgMissingPaymentTerms)
	}
	if r.ReceivingAccount == "" {
		errs = append(errs, msgMissingAccount)
	}
	if r.DueDate == nil {
		errs = append(errs, msgMissingDueDate)
	}

	if r.SaleDate != nil && r.DueDate != nil && r.DueDate.Before(*r.SaleDate) {
		errs = append(errs, msgDueBeforeSale)
	}

	return errs
}
