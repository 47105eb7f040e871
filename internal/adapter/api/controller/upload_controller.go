package controller

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bpoflow/vendas-backend/internal/adapter/api/dto"
	"github.com/bpoflow/vendas-backend/internal/adapter/repository"
	"github.com/bpoflow/vendas-backend/internal/domain/batch"
	"github.com/bpoflow/vendas-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// UploadController gerencia a importação de planilhas de vendas
type UploadController struct {
	importer        *service.Importer
	batchRepository batch.Repository
}

// NewUploadController cria uma nova instância de UploadController
func NewUploadController(importer *service.Importer, batchRepository batch.Repository) *UploadController {
	return &UploadController{
		importer:        importer,
		batchRepository: batchRepository,
	}
}

// Upload importa uma planilha XLSX de vendas
// @Summary Importa planilha de vendas
// @Description Recebe um arquivo XLSX, agrupa as linhas em vendas e grava o batch
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param company_id query string true "ID da company"
// @Param file formData file true "Planilha XLSX"
// @Success 201 {object} dto.ImportResultResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /uploads [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	companyID := ctx.Query("company_id")
	if companyID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", "company_id é obrigatório"))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Arquivo ausente", "Envie o arquivo no campo 'file'"))
		return
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".xlsx" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Formato não suportado", "Apenas arquivos .xlsx são aceitos"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Erro ao ler arquivo", err.Error()))
		return
	}
	defer file.Close()

	b, result, err := c.importer.ImportFile(ctx, companyID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySpreadsheet), errors.Is(err, service.ErrMissingColumns):
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Planilha inválida", err.Error()))
		default:
			ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro na importação", err.Error()))
		}
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToImportResultResponse(b.ID, result))
}

// ListBatches lista os batches importados de uma company
// @Summary Lista batches de importação
// @Tags uploads
// @Produce json
// @Param company_id query string true "ID da company"
// @Param page query int false "Página"
// @Param page_size query int false "Tamanho da página"
// @Success 200 {array} dto.BatchResponse
// @Router /uploads/batches [get]
func (c *UploadController) ListBatches(ctx *gin.Context) {
	companyID := ctx.Query("company_id")
	if companyID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", "company_id é obrigatório"))
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	pagination := dto.NewPagination(page, pageSize)

	batches, err := c.batchRepository.List(ctx, companyID, pagination.PageSize, pagination.Offset())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar batches", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBatchListResponse(batches))
}

// GetBatch busca um batch pelo ID
// @Summary Busca batch por ID
// @Tags uploads
// @Produce json
// @Param id path string true "ID do batch"
// @Success 200 {object} dto.BatchResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /uploads/batches/{id} [get]
func (c *UploadController) GetBatch(ctx *gin.Context) {
	b, err := c.batchRepository.FindByID(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBatchNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Batch não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar batch", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBatchResponse(b))
}
