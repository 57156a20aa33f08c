package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/certificate"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/numbering"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/terminal"
	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
	"github.com/hugohenrick/pdv-fiscal/pkg/logger"
)

// ReservationService aloca o próximo número sequencial de um
// (filial, terminal, série), sem corrida e idempotente por request ID
type ReservationService struct {
	reservations numbering.Repository
	terminals    terminal.Repository
	certificates certificate.Repository
	access       AccessChecker
	logger       logger.Logger
}

// NewReservationService cria uma nova instância de ReservationService
func NewReservationService(
	reservations numbering.Repository,
	terminals terminal.Repository,
	certificates certificate.Repository,
	access AccessChecker,
	log logger.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		terminals:    terminals,
		certificates: certificates,
		access:       access,
		logger:       log,
	}
}

// Reserve reserva o próximo número do terminal para o request ID.
// Chamadas repetidas com o mesmo request ID retornam a reserva original
// sem nenhuma verificação ou mutação adicional.
func (s *ReservationService) Reserve(ctx context.Context, terminalID string, series int, requestID, userID string) (*numbering.Reservation, error) {
	if requestID == "" {
		return nil, apperr.Validation("request_id_required", "request ID é obrigatório")
	}

	// Idempotência: reserva existente é retornada sem mais verificações
	existing, err := s.reservations.FindByRequestID(ctx, requestID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, numbering.ErrNotFound) {
		return nil, fmt.Errorf("falha ao consultar reserva existente: %w", err)
	}

	// Pré-condições, na ordem: terminal existe, operador tem acesso à
	// filial, série confere, certificado da filial está válido
	term, err := s.terminals.FindByID(ctx, terminalID)
	if err != nil {
		if errors.Is(err, terminal.ErrNotFound) {
			return nil, apperr.NotFound("terminal_not_found",
				fmt.Sprintf("terminal %s não encontrado", terminalID))
		}
		return nil, fmt.Errorf("falha ao buscar terminal: %w", err)
	}

	if err := ensureBranchAccess(ctx, s.access, userID, term.BranchID); err != nil {
		return nil, err
	}

	if series != term.Series {
		return nil, apperr.Validation("series_mismatch",
			fmt.Sprintf("série %d não corresponde à série %d configurada no terminal", series, term.Series))
	}

	if err := ensureValidCertificate(ctx, s.certificates, term.BranchID); err != nil {
		return nil, err
	}

	res, err := s.reservations.Allocate(ctx, term.ID, series, requestID, userID)
	if err != nil {
		return nil, fmt.Errorf("falha ao alocar número: %w", err)
	}

	s.logger.Info("número reservado",
		"terminal_id", term.ID, "series", series, "number", res.Number, "request_id", requestID)
	return res, nil
}
