package dto

// ErrorResponse é o envelope de erro devolvido pelas rotas do painel.
// Details carrega a causa concreta (mensagem de validação, corpo de
// resposta do Conta Azul) quando houver
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewErrorResponse monta o envelope de erro com o status HTTP usado na resposta
func NewErrorResponse(code int, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// SuccessResponse é o envelope das operações de escrita que não devolvem
// um recurso completo (salvar tokens, mapeamentos, item padrão)
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse monta o envelope de sucesso
func NewSuccessResponse(message string, data interface{}) SuccessResponse {
	return SuccessResponse{
		Message: message,
		Data:    data,
	}
}

// Pagination limita as listagens do painel (companies, batches)
type Pagination struct {
	Page     int
	PageSize int
}

// NewPagination normaliza os parâmetros de página: página mínima 1,
// tamanho entre 1 e 100 com padrão 10
func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize < 1:
		pageSize = 10
	case pageSize > 100:
		pageSize = 100
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// Offset converte a página no deslocamento usado nas queries de listagem
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// calculateTotalPages arredonda o total de registros para cima em
// páginas; listagem vazia ainda conta como uma página
func calculateTotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := (totalCount + pageSize - 1) / pageSize
	if pages == 0 {
		return 1
	}
	return pages
}
