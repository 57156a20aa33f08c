package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/certificate"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/numbering"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/preemission"
	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
	"github.com/hugohenrick/pdv-fiscal/pkg/logger"
)

// PreEmissionService captura a fotografia imutável da venda que será
// enviada à SEFAZ, amarrada à reserva de número pelo request ID
type PreEmissionService struct {
	preEmissions preemission.Repository
	reservations numbering.Repository
	certificates certificate.Repository
	logger       logger.Logger
}

// NewPreEmissionService cria uma nova instância de PreEmissionService
func NewPreEmissionService(
	preEmissions preemission.Repository,
	reservations numbering.Repository,
	certificates certificate.Repository,
	log logger.Logger,
) *PreEmissionService {
	return &PreEmissionService{
		preEmissions: preEmissions,
		reservations: reservations,
		certificates: certificates,
		logger:       log,
	}
}

// Create registra a pré-emissão do request ID. Idempotente: uma segunda
// chamada com qualquer payload retorna a pré-emissão original intacta.
func (s *PreEmissionService) Create(ctx context.Context, requestID string, payload json.RawMessage, userID string) (*preemission.PreEmission, error) {
	// Pré-emissão existente é retornada sem sobrescrever o payload
	existing, err := s.preEmissions.FindByRequestID(ctx, requestID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, preemission.ErrNotFound) {
		return nil, fmt.Errorf("falha ao consultar pré-emissão existente: %w", err)
	}

	res, err := s.reservations.FindByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, numbering.ErrNotFound) {
			return nil, apperr.NotFound("reservation_not_found",
				fmt.Sprintf("não existe reserva de número para o request ID %s", requestID))
		}
		return nil, fmt.Errorf("falha ao buscar reserva: %w", err)
	}

	if err := ensureValidCertificate(ctx, s.certificates, res.BranchID); err != nil {
		return nil, err
	}

	pre, err := preemission.NewPreEmission(res, payload, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid_payload", "payload da pré-emissão inválido", err)
	}

	stored, created, err := s.preEmissions.CreateIfAbsent(ctx, pre)
	if err != nil {
		return nil, fmt.Errorf("falha ao gravar pré-emissão: %w", err)
	}
	if created {
		s.logger.Info("pré-emissão registrada",
			"request_id", requestID, "terminal_id", res.TerminalID, "number", res.Number)
	}
	return stored, nil
}
