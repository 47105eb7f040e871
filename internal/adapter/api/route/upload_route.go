package route

import (
	"github.com/bpoflow/vendas-backend/internal/adapter/api/controller"
	"github.com/bpoflow/vendas-backend/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupUploadRoutes configura as rotas de importação de planilhas
func SetupUploadRoutes(router *gin.RouterGroup, uploadController *controller.UploadController, authService *auth.PanelAuthService) {
	uploads := router.Group("/uploads")
	uploads.Use(auth.PanelAuthMiddleware(authService))
	{
		uploads.POST("", uploadController.Upload)
		uploads.GET("/batches", uploadController.ListBatches)
		uploads.GET("/batches/:id", uploadController.GetBatch)
	}
}
