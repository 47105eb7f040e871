package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bpoflow/vendas-backend/internal/adapter/api/dto"
	"github.com/bpoflow/vendas-backend/internal/adapter/repository"
	"github.com/bpoflow/vendas-backend/internal/contaazul"
	"github.com/bpoflow/vendas-backend/internal/domain/company"
	"github.com/gin-gonic/gin"
)

// CAClientFactory cria um cliente Conta Azul escopado em uma company
type CAClientFactory func(companyID string) *contaazul.Client

// CompanyController gerencia as requisições relacionadas às companies
type CompanyController struct {
	companyRepository company.Repository
	mappingRepository company.MappingRepository
	newClient         CAClientFactory
}

// NewCompanyController cria uma nova instância de CompanyController
func NewCompanyController(companyRepository company.Repository, mappingRepository company.MappingRepository, newClient CAClientFactory) *CompanyController {
	return &CompanyController{
		companyRepository: companyRepository,
		mappingRepository: mappingRepository,
		newClient:         newClient,
	}
}

// Create cria uma nova company
// @Summary Cria uma nova company
// @Description Cria uma nova company no sistema
// @Tags companies
// @Accept json
// @Produce json
// @Param company body dto.CompanyRequest true "Dados da company"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /companies [post]
func (c *CompanyController) Create(ctx *gin.Context) {
	var request dto.CompanyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	// Company com mesmo nome é reaproveitada, como no painel original
	if existing, err := c.companyRepository.FindByName(ctx, request.Name); err == nil {
		ctx.JSON(http.StatusOK, dto.ToCompanyResponse(existing))
		return
	}

	comp, err := company.NewCompany(request.Name)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}
	if request.ReviewMode != nil {
		comp.ReviewMode = *request.ReviewMode
	}

	if err := c.companyRepository.Create(ctx, comp); err != nil {
		if errors.Is(err, repository.ErrCompanyDuplicateName) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Company já existe", "Uma company com este nome já está cadastrada"))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar company", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCompanyResponse(comp))
}

// List lista as companies
// @Summary Lista companies
// @Tags companies
// @Produce json
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {object} dto.CompanyListResponse
// @Router /companies [get]
func (c *CompanyController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	pagination := dto.NewPagination(page, pageSize)

	companies, err := c.companyRepository.List(ctx, pagination.PageSize, pagination.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar companies", err.Error()))
		return
	}

	total, err := c.companyRepository.Count(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao contar companies", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCompanyListResponse(companies, total, pagination.Page, pagination.PageSize))
}

// GetByID busca uma company pelo ID
// @Summary Busca company por ID
// @Tags companies
// @Produce json
// @Param id path string true "ID da company"
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /companies/{id} [get]
func (c *CompanyController) GetByID(ctx *gin.Context) {
	comp, ok := c.findCompany(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, dto.ToCompanyResponse(comp))
}

// Update atualiza os dados cadastrais de uma company
// @Summary Atualiza company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "ID da company"
// @Param company body dto.CompanyRequest true "Dados da company"
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /companies/{id} [put]
func (c *CompanyController) Update(ctx *gin.Context) {
	comp, ok := c.findCompany(ctx)
	if !ok {
		return
	}

	var request dto.CompanyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	reviewMode := comp.ReviewMode
	if request.ReviewMode != nil {
		reviewMode = *request.ReviewMode
	}
	if err := comp.Update(request.Name, reviewMode); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}

	if err := c.companyRepository.Update(ctx, comp); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar company", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCompanyResponse(comp))
}

// SetTokens salva manualmente o trio de tokens OAuth da company
// @Summary Salva tokens OAuth
// @Description Fallback manual para gravar o trio de tokens obtido no fluxo de autorização
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "ID da company"
// @Param tokens body dto.TokensRequest true "Trio de tokens"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /companies/{id}/tokens [post]
func (c *CompanyController) SetTokens(ctx *gin.Context) {
	comp, ok := c.findCompany(ctx)
	if !ok {
		return
	}

	var request dto.TokensRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	expiresIn := request.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	triple := &company.TokenTriple{
		AccessToken:  request.AccessToken,
		RefreshToken: request.RefreshToken,
		ExpiresAt:    time.Now().UTC().Add(time.Duration(expiresIn) * time.Second),
	}
	if err := c.companyRepository.UpdateTokens(ctx, comp.ID, triple); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao salvar tokens", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Tokens salvos", gin.H{
		"company_id":       comp.ID,
		"token_expires_at": triple.ExpiresAt,
	}))
}

// SetFinancialAccount define a conta financeira padrão da company
// @Summary Define conta financeira padrão
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "ID da company"
// @Param account body dto.FinancialAccountRequest true "Conta financeira"
// @Success 200 {object} dto.SuccessResponse
// @Router /companies/{id}/financial-account [post]
func (c *CompanyController) SetFinancialAccount(ctx *gin.Context) {
	comp, ok := c.findCompany(ctx)
	if !ok {
		return
	}

	var request dto.FinancialAccountRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	if err := c.companyRepository.UpdateFinancialAccount(ctx, comp.ID, request.FinancialAccountID); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao salvar conta financeira", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Conta financeira salva", nil))
}

// SetDefaultItem define o item padrão da company
// @Summary Define item padrão
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "ID da company"
// @Param item body dto.DefaultItemRequest true "Item padrão"
// @Success 200 {object} dto.SuccessResponse
// @Router /companies/{id}/default-item [post]
func (c *CompanyController) SetDefaultItem(ctx *gin.Context) {
	comp, ok := c.findCompany(ctx)
	if !ok {
		return
	}

	var request dto.DefaultItemRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	if err := c.companyRepository.UpdateDefaultItem(ctx, comp.ID, request.DefaultItemID); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao salvar item padrão", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Item padrão salvo", nil))
}

// UpsertMapping grava o mapeamento de conta por forma de pagamento
// @Summary Grava mapeamento de conta
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "ID da company"
// @Param mapping body dto.MappingRequest true "Mapeamento"
// @Success 200 {object} dto.SuccessResponse
// @Router /companies/{id}/account-mappings [post]
func (c *CompanyController) UpsertMapping(ctx *gin.Context) {
	comp, ok := c.findCompany(ctx)
	if !ok {
		return
	}

	var request dto.MappingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	mapping := &company.AccountMapping{
		CompanyID:          comp.ID,
		PaymentMethodKey:   contaazul.NormalizePaymentMethod(request.PaymentMethodKey),
		FinancialAccountID: request.FinancialAccountID,
	}
	if err := c.mappingRepository.Upsert(ctx, mapping); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao salvar mapeamento", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Mapeamento salvo", dto.MappingResponse{
		PaymentMethodKey:   mapping.PaymentMethodKey,
		FinancialAccountID: mapping.FinancialAccountID,
	}))
}

// ListMappings lista os mapeamentos de conta da company
// @Summary Lista mapeamentos de conta
// @Tags companies
// @Produce json
// @Param id path string true "ID da company"
// @Success 200 {array} dto.MappingResponse
// @Router /companies/{id}/account-mappings [get]
func (c *CompanyController) ListMappings(ctx *gin.Context) {
	comp, ok := c.findCompany(ctx)
	if !ok {
		return
	}

	mappings, err := c.mappingRepository.FindByCompany(ctx, comp.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar mapeamentos", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMappingResponses(mappings))
}

// ListCAFinancialAccounts lista as contas financeiras direto do Conta Azul
// @Summary Lista contas financeiras do Conta Azul
// @Tags companies
// @Produce json
// @Param id path string true "ID da company"
// @Success 200 {object} contaazul.FinancialAccountPage
// @Failure 502 {object} dto.ErrorResponse
// @Router /companies/{id}/ca/financial-accounts [get]
func (c *CompanyController) ListCAFinancialAccounts(ctx *gin.Context) {
	comp, ok := c.findCompany(ctx)
	if !ok {
		return
	}

	client := c.newClient(comp.ID)
	page, err := client.ListFinancialAccounts(ctx)
	if err != nil {
		status := http.StatusBadGateway
		if contaazul.IsConfiguration(err) || contaazul.IsAuthorizationExpired(err) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, dto.NewErrorResponse(status, "Erro ao consultar Conta Azul", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// ListCAProducts busca produtos/serviços do inventário direto do Conta
// Azul, para o operador localizar o id usado como item padrão
// @Summary Busca produtos/serviços no Conta Azul
// @Tags companies
// @Produce json
// @Param id path string true "ID da company"
// @Param busca query string true "Texto de busca"
// @Param pagina query int false "Página"
// @Param tamanho_pagina query int false "Tamanho da página"
// @Success 200 {object} contaazul.ProductPage
// @Failure 502 {object} dto.ErrorResponse
// @Router /companies/{id}/ca/products [get]
func (c *CompanyController) ListCAProducts(ctx *gin.Context) {
	comp, ok := c.findCompany(ctx)
	if !ok {
		return
	}

	busca := ctx.Query("busca")
	if busca == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", "busca é obrigatório"))
		return
	}
	pagina, _ := strconv.Atoi(ctx.DefaultQuery("pagina", "1"))
	tamanhoPagina, _ := strconv.Atoi(ctx.DefaultQuery("tamanho_pagina", "50"))

	client := c.newClient(comp.ID)
	page, err := client.ListProducts(ctx, busca, pagina, tamanhoPagina)
	if err != nil {
		status := http.StatusBadGateway
		if contaazul.IsConfiguration(err) || contaazul.IsAuthorizationExpired(err) {
			status = http.StatusBadRequest
		}
		ctx.JSON(status, dto.NewErrorResponse(status, "Erro ao consultar Conta Azul", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// findCompany busca a company do path e responde 404 quando ausente
func (c *CompanyController) findCompany(ctx *gin.Context) (*company.Company, bool) {
	comp, err := c.companyRepository.FindByID(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Company não encontrada", ""))
			return nil, false
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar company", err.Error()))
		return nil, false
	}
	return comp, true
}
