package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-fiscal/internal/adapter/api/controller"
	"github.com/hugohenrick/pdv-fiscal/pkg/auth"
)

// SetupFiscalRoutes configura as rotas do fluxo fiscal do PDV
func SetupFiscalRoutes(router *gin.RouterGroup, fiscalController *controller.FiscalController) {
	// Todas as rotas fiscais requerem autenticação e verificação de tenant
	fiscalRouter := router.Group("/fiscal")
	fiscalRouter.Use(auth.JWTAuthMiddleware())
	{
		// Fluxo de emissão na ordem do caixa: reserva, pré-emissão, emissão
		fiscalRouter.POST("/reservations", fiscalController.Reserve)
		fiscalRouter.POST("/pre-emissions", fiscalController.CreatePreEmission)
		fiscalRouter.POST("/emissions", fiscalController.Emit)

		// Consulta e operações sobre documentos emitidos
		fiscalRouter.GET("/documents/:ref", fiscalController.GetDocument)
		fiscalRouter.GET("/documents/:ref/audit", fiscalController.GetAuditTrail)
		fiscalRouter.POST("/documents/:ref/regularize", fiscalController.Regularize)
		fiscalRouter.POST("/documents/:ref/cancel", fiscalController.Cancel)

		// Inutilização de faixas de numeração
		fiscalRouter.POST("/void-ranges", fiscalController.VoidRange)
	}
}
