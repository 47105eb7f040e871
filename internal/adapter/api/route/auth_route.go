package route

import (
	"github.com/bpoflow/vendas-backend/internal/adapter/api/controller"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes configura as rotas de autenticação do painel
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController) {
	authRouter := router.Group("/auth")
	{
		// Rota de login por PIN (não requer autenticação)
		authRouter.POST("/login", authController.Login)
	}
}
