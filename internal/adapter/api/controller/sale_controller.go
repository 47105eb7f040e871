package controller

import (
	"errors"
	"net/http"

	"github.com/bpoflow/vendas-backend/internal/adapter/api/dto"
	"github.com/bpoflow/vendas-backend/internal/adapter/repository"
	"github.com/bpoflow/vendas-backend/internal/contaazul"
	"github.com/bpoflow/vendas-backend/internal/domain/sale"
	"github.com/bpoflow/vendas-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// SaleController gerencia as requisições relacionadas às vendas importadas
type SaleController struct {
	saleRepository sale.Repository
	sender         *service.Sender
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(saleRepository sale.Repository, sender *service.Sender) *SaleController {
	return &SaleController{
		saleRepository: saleRepository,
		sender:         sender,
	}
}

// List lista vendas com filtros opcionais
// @Summary Lista vendas
// @Description Lista vendas filtrando por company, batch e status
// @Tags sales
// @Produce json
// @Param company_id query string false "ID da company"
// @Param batch_id query string false "ID do batch"
// @Param status query string false "Status da venda"
// @Success 200 {array} dto.SaleResponse
// @Router /sales [get]
func (c *SaleController) List(ctx *gin.Context) {
	filter := sale.Filter{
		CompanyID: ctx.Query("company_id"),
		BatchID:   ctx.Query("batch_id"),
		Status:    sale.Status(ctx.Query("status")),
	}

	sales, err := c.saleRepository.List(ctx, filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar vendas", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleListResponse(sales))
}

// GetByID busca uma venda com seus itens
// @Summary Busca venda por ID
// @Tags sales
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) GetByID(ctx *gin.Context) {
	v, ok := c.findSale(ctx)
	if !ok {
		return
	}

	items, err := c.saleRepository.FindItems(ctx, v.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar itens", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleDetailResponse(v, items))
}

// Approve aprova uma venda que aguarda revisão
// @Summary Aprova venda
// @Description Move a venda de AGUARDANDO_APROVACAO para PRONTA
// @Tags sales
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sales/{id}/approve [post]
func (c *SaleController) Approve(ctx *gin.Context) {
	v, ok := c.findSale(ctx)
	if !ok {
		return
	}

	if err := v.Approve(); err != nil {
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Venda não pode ser aprovada", err.Error()))
		return
	}

	if err := c.saleRepository.Update(ctx, v); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao aprovar venda", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(v))
}

// ApproveBatch aprova todas as vendas pendentes de revisão de um batch
// @Summary Aprova vendas do batch
// @Tags sales
// @Produce json
// @Param company_id query string true "ID da company"
// @Param batch_id query string true "ID do batch"
// @Success 200 {object} dto.ApproveBatchResponse
// @Router /sales/approve-batch [post]
func (c *SaleController) ApproveBatch(ctx *gin.Context) {
	companyID := ctx.Query("company_id")
	batchID := ctx.Query("batch_id")
	if companyID == "" || batchID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", "company_id e batch_id são obrigatórios"))
		return
	}

	sales, err := c.saleRepository.List(ctx, sale.Filter{
		CompanyID: companyID,
		BatchID:   batchID,
		Status:    sale.StatusAwaitingApproval,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar vendas", err.Error()))
		return
	}

	approved := 0
	for _, v := range sales {
		if err := v.Approve(); err != nil {
			continue
		}
		if err := c.saleRepository.Update(ctx, v); err != nil {
			continue
		}
		approved++
	}

	ctx.JSON(http.StatusOK, dto.ApproveBatchResponse{Approved: approved})
}

// Send envia uma venda para o Conta Azul
// @Summary Envia venda ao Conta Azul
// @Description Cria a venda no Conta Azul, resolvendo cliente e conta financeira
// @Tags sales
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /sales/{id}/send [post]
func (c *SaleController) Send(ctx *gin.Context) {
	v, err := c.sender.SendSale(ctx, ctx.Param("id"))
	if err != nil {
		c.respondSendError(ctx, v, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(v))
}

// SendBatch envia todas as vendas enviáveis de um batch
// @Summary Envia vendas do batch ao Conta Azul
// @Description Envia cada venda individualmente; falha em uma venda não interrompe as demais
// @Tags sales
// @Produce json
// @Param company_id query string true "ID da company"
// @Param batch_id query string true "ID do batch"
// @Success 200 {object} dto.BatchSendResponse
// @Router /sales/send-batch [post]
func (c *SaleController) SendBatch(ctx *gin.Context) {
	companyID := ctx.Query("company_id")
	batchID := ctx.Query("batch_id")
	if companyID == "" || batchID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", "company_id e batch_id são obrigatórios"))
		return
	}

	result, err := c.sender.SendBatch(ctx, companyID, batchID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro no envio em lote", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.BatchSendResponse{Sent: result.Sent, Failed: result.Failed})
}

// respondSendError traduz os erros de envio para um status HTTP adequado
func (c *SaleController) respondSendError(ctx *gin.Context, v *sale.Sale, err error) {
	switch {
	case errors.Is(err, repository.ErrSaleNotFound):
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Venda não encontrada", ""))
	case errors.Is(err, sale.ErrAlreadySent):
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Venda já enviada", "Esta venda já foi enviada ao Conta Azul"))
	case errors.Is(err, sale.ErrNotSendable):
		ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Venda não enviável", err.Error()))
	case contaazul.IsConfiguration(err):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Configuração incompleta", err.Error()))
	case contaazul.IsAuthorizationExpired(err):
		ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Autorização expirada", err.Error()))
	default:
		ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(http.StatusBadGateway, "Erro ao enviar venda", err.Error()))
	}
}

// findSale busca a venda do path e responde 404 quando ausente
func (c *SaleController) findSale(ctx *gin.Context) (*sale.Sale, bool) {
	v, err := c.saleRepository.FindByID(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Venda não encontrada", ""))
			return nil, false
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar venda", err.Error()))
		return nil, false
	}
	return v, true
}
