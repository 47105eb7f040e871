package route

import (
	"github.com/bpoflow/vendas-backend/internal/adapter/api/controller"
	"github.com/bpoflow/vendas-backend/pkg/auth"
	"github.com/gin-gonic/gin"
)

// SetupCompanyRoutes configura as rotas do módulo de companies
func SetupCompanyRoutes(router *gin.RouterGroup, companyController *controller.CompanyController, authService *auth.PanelAuthService) {
	companies := router.Group("/companies")
	companies.Use(auth.PanelAuthMiddleware(authService))
	{
		companies.POST("", companyController.Create)
		companies.GET("", companyController.List)
		companies.GET("/:id", companyController.GetByID)
		companies.PUT("/:id", companyController.Update)
		companies.POST("/:id/tokens", companyController.SetTokens)
		companies.POST("/:id/financial-account", companyController.SetFinancialAccount)
		companies.POST("/:id/default-item", companyController.SetDefaultItem)
		companies.POST("/:id/account-mappings", companyController.UpsertMapping)
		companies.GET("/:id/account-mappings", companyController.ListMappings)
		companies.GET("/:id/ca/financial-accounts", companyController.ListCAFinancialAccounts)
		companies.GET("/:id/ca/products", companyController.ListCAProducts)
	}
}
