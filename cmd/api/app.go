package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hugohenrick/pdv-fiscal/docs"
	"github.com/hugohenrick/pdv-fiscal/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-fiscal/internal/adapter/api/route"
	"github.com/hugohenrick/pdv-fiscal/internal/adapter/repository"
	"github.com/hugohenrick/pdv-fiscal/internal/infrastructure/database"
	"github.com/hugohenrick/pdv-fiscal/internal/sefaz"
	"github.com/hugohenrick/pdv-fiscal/internal/service"
	"github.com/hugohenrick/pdv-fiscal/pkg/auth"
	"github.com/hugohenrick/pdv-fiscal/pkg/logger"
	"github.com/hugohenrick/pdv-fiscal/pkg/tenant"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App representa a aplicação e suas dependências
type App struct {
	router           *gin.Engine
	db               *pgxpool.Pool
	logger           logger.Logger
	tenantMiddleware gin.HandlerFunc
	fiscalController *controller.FiscalController
}

// NewApp cria uma nova instância do aplicativo com todas as dependências
// do fluxo fiscal conectadas
func NewApp() (*App, error) {
	log := logger.NewLogger()

	db, err := database.NewPostgresDB()
	if err != nil {
		return nil, err
	}

	// Repositórios
	branchRepo := repository.NewBranchRepository(db)
	terminalRepo := repository.NewTerminalRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	preEmissionRepo := repository.NewPreEmissionRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	voidRangeRepo := repository.NewVoidRangeRepository(db)

	// Validação de tenant e acesso do operador
	tenantValidator := repository.NewTenantValidator(db)
	access := auth.NewClaimsAccessChecker()

	// Factory de clientes da SEFAZ; sem integrações regionais registradas
	// toda filial usa a implementação padrão
	clients := sefaz.NewClientFactory(log)

	// Serviços do fluxo fiscal
	reservations := service.NewReservationService(reservationRepo, terminalRepo, certificateRepo, access, log)
	preEmissions := service.NewPreEmissionService(preEmissionRepo, reservationRepo, certificateRepo, log)
	emissions := service.NewEmissionService(preEmissionRepo, documentRepo, branchRepo, certificateRepo, access, clients, log)
	regularizations := service.NewRegularizationService(documentRepo, preEmissionRepo, branchRepo, certificateRepo, access, clients, log)
	voidRanges := service.NewVoidRangeService(voidRangeRepo, documentRepo, branchRepo, terminalRepo, access, clients, log)
	queries := service.NewDocumentQueryService(documentRepo, auditRepo, access)

	fiscalController := controller.NewFiscalController(
		reservations, preEmissions, emissions, regularizations, voidRanges, queries, log)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "tenant-id", "branch-id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	return &App{
		router:           router,
		db:               db,
		logger:           log,
		tenantMiddleware: tenant.Middleware(tenantValidator),
		fiscalController: fiscalController,
	}, nil
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes() {
	a.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := a.router.Group("/api/v1")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	// Todas as rotas fiscais exigem tenant válido
	protected := api.Group("")
	protected.Use(a.tenantMiddleware)
	route.SetupFiscalRoutes(protected, a.fiscalController)
}

// Start inicia o servidor HTTP
func (a *App) Start() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	a.logger.Info("servidor iniciado", "port", port)
	return a.router.Run(":" + port)
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
