package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/branch"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/terminal"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/voidrange"
	"github.com/hugohenrick/pdv-fiscal/internal/sefaz"
	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
	"github.com/hugohenrick/pdv-fiscal/pkg/logger"
)

// VoidRangeService inutiliza permanentemente uma faixa de numeração não
// emitida de uma (filial, série)
type VoidRangeService struct {
	voidRanges voidrange.Repository
	documents  document.Repository
	branches   branch.Repository
	terminals  terminal.Repository
	access     AccessChecker
	clients    ClientProvider
	logger     logger.Logger
}

// NewVoidRangeService cria uma nova instância de VoidRangeService
func NewVoidRangeService(
	voidRanges voidrange.Repository,
	documents document.Repository,
	branches branch.Repository,
	terminals terminal.Repository,
	access AccessChecker,
	clients ClientProvider,
	log logger.Logger,
) *VoidRangeService {
	return &VoidRangeService{
		voidRanges: voidRanges,
		documents:  documents,
		branches:   branches,
		terminals:  terminals,
		access:     access,
		clients:    clients,
		logger:     log,
	}
}

// Void inutiliza a faixa [start, end] da série na filial. Idempotente por
// request ID e também por faixa idêntica (tolerância a reenvio duplicado
// sem request ID compartilhado). Recusada por inteiro se qualquer número
// da faixa já pertence a documento autorizado ou cancelado.
func (s *VoidRangeService) Void(ctx context.Context, branchID string, series, start, end int, motive, requestID, userID string) (*voidrange.VoidRange, error) {
	if err := voidrange.ValidateRange(start, end, motive); err != nil {
		code := "invalid_range"
		if errors.Is(err, voidrange.ErrMotiveTooShort) {
			code = "invalid_motive"
		}
		return nil, apperr.Wrap(apperr.KindValidation, code, err.Error(), err)
	}
	if requestID == "" {
		return nil, apperr.Validation("request_id_required", "request ID é obrigatório")
	}

	br, err := s.branches.FindByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, branch.ErrNotFound) {
			return nil, apperr.NotFound("branch_not_found",
				fmt.Sprintf("filial %s não encontrada", branchID))
		}
		return nil, fmt.Errorf("falha ao buscar filial: %w", err)
	}

	if err := ensureBranchAccess(ctx, s.access, userID, br.ID); err != nil {
		return nil, err
	}

	// Idempotência dupla: por request ID e por faixa exata
	if existing, err := s.voidRanges.FindByRequestID(ctx, requestID); err == nil {
		return existing, nil
	} else if !errors.Is(err, voidrange.ErrNotFound) {
		return nil, fmt.Errorf("falha ao consultar inutilização existente: %w", err)
	}
	if existing, err := s.voidRanges.FindByRange(ctx, br.ID, series, start, end); err == nil {
		return existing, nil
	} else if !errors.Is(err, voidrange.ErrNotFound) {
		return nil, fmt.Errorf("falha ao consultar inutilização por faixa: %w", err)
	}

	occupied, err := s.documents.ExistsIssuedInRange(ctx, br.ID, series, start, end)
	if err != nil {
		return nil, fmt.Errorf("falha ao verificar documentos na faixa: %w", err)
	}
	if occupied {
		return nil, apperr.Conflict("range_conflict",
			fmt.Sprintf("a faixa %d-%d da série %d contém documentos emitidos", start, end, series))
	}

	// A auditoria da inutilização é atribuída a um terminal da filial
	term, err := s.terminals.FindFirstByBranch(ctx, br.ID)
	if err != nil {
		if errors.Is(err, terminal.ErrNotFound) {
			return nil, apperr.Configuration("branch_without_terminal",
				fmt.Sprintf("filial %s não possui terminais cadastrados", br.ID))
		}
		return nil, fmt.Errorf("falha ao buscar terminal da filial: %w", err)
	}

	resp, err := s.clients.ForBranch(br, false).VoidRange(ctx, series, start, end, motive)
	if err != nil {
		if sefaz.IsTechnical(err) {
			return nil, apperr.Upstream("sefaz_unreachable",
				"SEFAZ indisponível para inutilização de faixa", err)
		}
		return nil, apperr.Upstream("sefaz_communication",
			"falha inesperada na comunicação com a SEFAZ", err)
	}

	vr, err := voidrange.NewVoidRange(br.TenantID, br.ID, series, start, end, motive, requestID, resp.Protocol, resp.Raw, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid_range", err.Error(), err)
	}

	entry := audit.NewEntry(br.TenantID, audit.EventRangeVoided, nil, br.ID, term.ID, userID, requestID).
		WithReturn(resp.Code, resp.Message, resp.Raw).
		WithEnvironment(string(br.Environment), br.UF)

	stored, created, err := s.voidRanges.CreateWithAudit(ctx, vr, entry)
	if err != nil {
		return nil, apperr.Upstream("sefaz_communication",
			"falha ao persistir a inutilização", err)
	}
	if created {
		s.logger.Info("faixa inutilizada",
			"branch_id", br.ID, "series", series, "start", start, "end", end, "request_id", requestID)
	}
	return stored, nil
}
