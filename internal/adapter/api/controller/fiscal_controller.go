package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-fiscal/internal/adapter/api/dto"
	"github.com/hugohenrick/pdv-fiscal/internal/service"
	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
	"github.com/hugohenrick/pdv-fiscal/pkg/logger"
)

// FiscalController manipula as requisições do fluxo fiscal do PDV: reserva
// de numeração, pré-emissão, emissão, contingência, cancelamento e
// inutilização de faixas
type FiscalController struct {
	reservations    *service.ReservationService
	preEmissions    *service.PreEmissionService
	emissions       *service.EmissionService
	regularizations *service.RegularizationService
	voidRanges      *service.VoidRangeService
	queries         *service.DocumentQueryService
	logger          logger.Logger
}

// NewFiscalController cria uma nova instância de FiscalController
func NewFiscalController(
	reservations *service.ReservationService,
	preEmissions *service.PreEmissionService,
	emissions *service.EmissionService,
	regularizations *service.RegularizationService,
	voidRanges *service.VoidRangeService,
	queries *service.DocumentQueryService,
	logger logger.Logger,
) *FiscalController {
	return &FiscalController{
		reservations:    reservations,
		preEmissions:    preEmissions,
		emissions:       emissions,
		regularizations: regularizations,
		voidRanges:      voidRanges,
		queries:         queries,
		logger:          logger,
	}
}

// respondError traduz um erro da camada de serviço em resposta HTTP
func (c *FiscalController) respondError(ctx *gin.Context, err error) {
	if apperr.KindOf(err) == "" {
		c.logger.Error("erro interno no fluxo fiscal", "error", err.Error(), "path", ctx.FullPath())
		ctx.JSON(http.StatusInternalServerError,
			dto.NewErrorResponse(http.StatusInternalServerError, "erro interno", err.Error()))
		return
	}
	status, body := dto.FromAppError(err)
	ctx.JSON(status, body)
}

// @Summary Reservar número fiscal
// @Description Reserva o próximo número da sequência do terminal para o request ID informado. Idempotente por request ID.
// @Tags Fiscal
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param reservation body dto.ReservationRequest true "Dados da reserva"
// @Success 200 {object} dto.ReservationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fiscal/reservations [post]
func (c *FiscalController) Reserve(ctx *gin.Context) {
	var req dto.ReservationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	userID := ctx.GetString("user_id")
	res, err := c.reservations.Reserve(ctx.Request.Context(), req.TerminalID, req.Series, req.RequestID, userID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewReservationResponse(res))
}

// @Summary Capturar pré-emissão
// @Description Registra a fotografia imutável da venda para o request ID reservado. Idempotente: payload repetido não sobrescreve o original.
// @Tags Fiscal
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param preemission body dto.PreEmissionRequest true "Dados da pré-emissão"
// @Success 200 {object} dto.PreEmissionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fiscal/pre-emissions [post]
func (c *FiscalController) CreatePreEmission(ctx *gin.Context) {
	var req dto.PreEmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	payload, err := json.Marshal(req.Sale)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "payload da venda inválido", err.Error()))
		return
	}

	userID := ctx.GetString("user_id")
	pre, err := c.preEmissions.Create(ctx.Request.Context(), req.RequestID, payload, userID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPreEmissionResponse(pre))
}

// @Summary Emitir documento fiscal
// @Description Envia a pré-emissão do request ID à SEFAZ e persiste o desfecho. Falha técnica vira contingência pendente, nunca erro. Idempotente por request ID.
// @Tags Fiscal
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param emission body dto.EmissionRequest true "Dados da emissão"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /fiscal/emissions [post]
func (c *FiscalController) Emit(ctx *gin.Context) {
	var req dto.EmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	userID := ctx.GetString("user_id")
	doc, err := c.emissions.Emit(ctx.Request.Context(), req.RequestID, userID, req.ForceContingency)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDocumentResponse(doc))
}

// @Summary Consultar documento fiscal
// @Description Busca um documento por ID ou chave de acesso. Documentos em contingência ativa omitem chave, protocolo e XML até a regularização.
// @Tags Fiscal
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param ref path string true "ID ou chave de acesso do documento"
// @Success 200 {object} dto.DocumentResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fiscal/documents/{ref} [get]
func (c *FiscalController) GetDocument(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	doc, err := c.queries.Get(ctx.Request.Context(), ctx.Param("ref"), userID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDocumentResponse(doc))
}

// @Summary Consultar auditoria do documento
// @Description Lista os eventos de auditoria de um documento em ordem cronológica
// @Tags Fiscal
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param ref path string true "ID ou chave de acesso do documento"
// @Success 200 {array} dto.AuditEntryResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /fiscal/documents/{ref}/audit [get]
func (c *FiscalController) GetAuditTrail(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	entries, err := c.queries.AuditTrail(ctx.Request.Context(), ctx.Param("ref"), userID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewAuditEntryResponse(e))
	}
	ctx.JSON(http.StatusOK, out)
}

// @Summary Regularizar contingência
// @Description Reenvia à SEFAZ um documento em contingência pendente. Documentos fora de contingência retornam o estado atual sem novo envio.
// @Tags Fiscal
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param ref path string true "ID ou chave de acesso do documento"
// @Success 200 {object} dto.DocumentResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /fiscal/documents/{ref}/regularize [post]
func (c *FiscalController) Regularize(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	doc, err := c.regularizations.Regularize(ctx.Request.Context(), ctx.Param("ref"), userID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDocumentResponse(doc))
}

// @Summary Cancelar documento fiscal
// @Description Cancela um documento autorizado junto à SEFAZ. A justificativa deve ter no mínimo 15 caracteres.
// @Tags Fiscal
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param ref path string true "ID ou chave de acesso do documento"
// @Param cancel body dto.CancelRequest true "Justificativa do cancelamento"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /fiscal/documents/{ref}/cancel [post]
func (c *FiscalController) Cancel(ctx *gin.Context) {
	var req dto.CancelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	userID := ctx.GetString("user_id")
	doc, err := c.emissions.Cancel(ctx.Request.Context(), ctx.Param("ref"), req.Motive, userID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDocumentResponse(doc))
}

// @Summary Inutilizar faixa de numeração
// @Description Inutiliza permanentemente uma faixa de números não emitidos de uma (filial, série). Idempotente por request ID e por faixa exata.
// @Tags Fiscal
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param voidrange body dto.VoidRangeRequest true "Dados da inutilização"
// @Success 200 {object} dto.VoidRangeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /fiscal/void-ranges [post]
func (c *FiscalController) VoidRange(ctx *gin.Context) {
	var req dto.VoidRangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	userID := ctx.GetString("user_id")
	vr, err := c.voidRanges.Void(ctx.Request.Context(), req.BranchID, req.Series, req.StartNumber, req.EndNumber, req.Motive, req.RequestID, userID)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewVoidRangeResponse(vr))
}
