package controller

import (
	"net/http"

	"github.com/bpoflow/vendas-backend/internal/adapter/api/dto"
	"github.com/bpoflow/vendas-backend/pkg/auth"
	"github.com/gin-gonic/gin"
)

// AuthController gerencia a autenticação do painel por PIN
type AuthController struct {
	authService *auth.PanelAuthService
}

// NewAuthController cria uma nova instância de AuthController
func NewAuthController(authService *auth.PanelAuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login autentica o operador do painel via PIN
// @Summary Login do painel
// @Description Troca o PIN do painel por um token JWT de sessão
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.PinLoginRequest true "PIN do painel"
// @Success 200 {object} dto.PinLoginResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var request dto.PinLoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	token, expiresAt, err := c.authService.Login(request.Pin)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "PIN inválido", ""))
		return
	}

	ctx.JSON(http.StatusOK, dto.PinLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
