package contaazul

// Respostas tipadas por endpoint. Campos opcionais ficam explícitos
// aqui em vez de mapas soltos: mudanças de formato da API quebram na
// desserialização e não em um call site qualquer

// Person representa uma pessoa (cliente) no Conta Azul
type Person struct {
	ID   string `json:"id"`
	Nome string `json:"nome"`
}

// PeopleList é o envelope da busca de pessoas por nome
type PeopleList struct {
	TotalItems int      `json:"totalItems"`
	Items      []Person `json:"items"`
}

// FinancialAccount representa uma conta financeira da company
type FinancialAccount struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Tipo  string `json:"tipo"`
	Ativo bool   `json:"ativo"`
}

// FinancialAccountPage é o contrato paginado normalizado da listagem
// de contas financeiras
type FinancialAccountPage struct {
	TotalItems int                `json:"totalItems"`
	Items      []FinancialAccount `json:"items"`
}

// Product representa um produto ou serviço do inventário da company
type Product struct {
	ID     string  `json:"id"`
	Nome   string  `json:"nome"`
	Codigo string  `json:"codigo,omitempty"`
	Valor  float64 `json:"valor,omitempty"`
}

// ProductPage é o contrato paginado normalizado da busca de produtos
type ProductPage struct {
	TotalItems int       `json:"totalItems"`
	Items      []Product `json:"items"`
}

// SaleCreated é a resposta da criação de venda
type SaleCreated struct {
	ID     string `json:"id"`
	Numero string `json:"numero,omitempty"`
}

// SalePayload é o corpo de POST /v1/venda
type SalePayload struct {
	Situacao          string            `json:"situacao"`
	DataVenda         string            `json:"data_venda"`
	Observacoes       string            `json:"observacoes,omitempty"`
	IDCliente         string            `json:"id_cliente"`
	Numero            string            `json:"numero"`
	Itens             []ItemPayload     `json:"itens"`
	CondicaoPagamento CondicaoPagamento `json:"condicao_pagamento"`
}

// ItemPayload é um item da venda no formato do Conta Azul
type ItemPayload struct {
	ID         string  `json:"id,omitempty"`
	Descricao  string  `json:"descricao"`
	Quantidade float64 `json:"quantidade"`
	Valor      float64 `json:"valor"`
}

// CondicaoPagamento descreve a forma e as parcelas da venda
type CondicaoPagamento struct {
	TipoPagamento          string    `json:"tipo_pagamento"`
	OpcaoCondicaoPagamento string    `json:"opcao_condicao_pagamento"`
	IDContaFinanceira      string    `json:"id_conta_financeira,omitempty"`
	Parcelas               []Parcela `json:"parcelas"`
}

// Parcela é uma parcela da condição de pagamento
type Parcela struct {
	DataVencimento string  `json:"data_vencimento"`
	Valor          float64 `json:"valor"`
}
