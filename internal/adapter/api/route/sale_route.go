package route

import (
	"github.com/bpoflow/vendas-backend/internal/adapter/api/controller"
	"github.com/bpoflow/vendas-backend/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupSaleRoutes configura as rotas do módulo de vendas
func SetupSaleRoutes(router *gin.RouterGroup, saleController *controller.SaleController, authService *auth.PanelAuthService) {
	sales := router.Group("/sales")
	sales.Use(auth.PanelAuthMiddleware(authService))
	{
		sales.GET("", saleController.List)
		sales.GET("/:id", saleController.GetByID)
		sales.POST("/:id/approve", saleController.Approve)
		sales.POST("/approve-batch", saleController.ApproveBatch)
		sales.POST("/:id/send", saleController.Send)
		sales.POST("/send-batch", saleController.SendBatch)
	}
}
