package auth

import (
	"net/http"
	"strings"

	"github.com/bpoflow/vendas-backend/internal/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// PanelAuthMiddleware cria um middleware que exige um token de painel
// válido no cabeçalho Authorization
func PanelAuthMiddleware(service *PanelAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"O cabeçalho Authorization não foi fornecido",
			))
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Formato de token inválido",
				"Use o formato 'Bearer <token>'",
			))
			return
		}

		claims, err := service.ValidateToken(tokenParts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Token inválido ou expirado",
				err.Error(),
			))
			return
		}

		c.Set("panel_scope", claims.Scope)
		c.Next()
	}
}
