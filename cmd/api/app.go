package main

import (
	"github.com/bpoflow/vendas-backend/internal/adapter/api/controller"
	"github.com/bpoflow/vendas-backend/internal/adapter/api/route"
	"github.com/bpoflow/vendas-backend/internal/adapter/repository"
	"github.com/bpoflow/vendas-backend/internal/contaazul"
	"github.com/bpoflow/vendas-backend/internal/infrastructure/database"
	"github.com/bpoflow/vendas-backend/internal/service"
	"github.com/bpoflow/vendas-backend/pkg/auth"
	"github.com/bpoflow/vendas-backend/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App representa a aplicação e suas dependências
type App struct {
	router            *gin.Engine
	db                *pgxpool.Pool
	authService       *auth.PanelAuthService
	authController    *controller.AuthController
	companyController *controller.CompanyController
	saleController    *controller.SaleController
	uploadController  *controller.UploadController
}

// NewApp cria uma nova instância do aplicativo
func NewApp() (*App, error) {
	log := logger.NewLogger()

	// Configurar banco de dados
	db, err := database.NewPostgresDB()
	if err != nil {
		return nil, err
	}

	// Configuração do Conta Azul (client_id/secret e URLs)
	caConfig, err := contaazul.NewConfigFromEnv()
	if err != nil {
		return nil, err
	}

	// Autenticação do painel por PIN
	authService, err := auth.NewPanelAuthService()
	if err != nil {
		return nil, err
	}

	// Criar repositórios
	companyRepo := repository.NewCompanyRepository(db)
	mappingRepo := repository.NewMappingRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	cacheRepo := repository.NewCustomerCacheRepository(db)

	// Cada envio usa um cliente escopado na company, que carrega e
	// renova os tokens dela no banco
	clientFactory := func(companyID string) service.ContaAzulAPI {
		return contaazul.NewClient(companyID, companyRepo, caConfig)
	}

	// Criar serviços
	builder := service.NewSalesBuilder(companyRepo, saleRepo, log)
	importer := service.NewImporter(batchRepo, builder, log)
	sender := service.NewSender(companyRepo, mappingRepo, saleRepo, cacheRepo, clientFactory, log)

	// Criar controllers
	authController := controller.NewAuthController(authService)
	companyController := controller.NewCompanyController(companyRepo, mappingRepo, func(companyID string) *contaazul.Client {
		return contaazul.NewClient(companyID, companyRepo, caConfig)
	})
	saleController := controller.NewSaleController(saleRepo, sender)
	uploadController := controller.NewUploadController(importer, batchRepo)

	// Configurar router
	router := gin.Default()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	return &App{
		router:            router,
		db:                db,
		authService:       authService,
		authController:    authController,
		companyController: companyController,
		saleController:    saleController,
		uploadController:  uploadController,
	}, nil
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes(basePath string) {
	api := a.router.Group(basePath)

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	route.SetupAuthRoutes(api, a.authController)
	route.SetupCompanyRoutes(api, a.companyController, a.authService)
	route.SetupSaleRoutes(api, a.saleController, a.authService)
	route.SetupUploadRoutes(api, a.uploadController, a.authService)
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
