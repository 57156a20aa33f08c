package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/branch"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/certificate"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/preemission"
	"github.com/hugohenrick/pdv-fiscal/internal/sefaz"
	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
	"github.com/hugohenrick/pdv-fiscal/pkg/logger"
)

// RegularizationService reenvia documentos presos em contingência para a
// SEFAZ, levando-os a um estado terminal (autorizado ou rejeitado em
// contingência)
type RegularizationService struct {
	documents    document.Repository
	preEmissions preemission.Repository
	branches     branch.Repository
	certificates certificate.Repository
	access       AccessChecker
	clients      ClientProvider
	logger       logger.Logger
}

// NewRegularizationService cria uma nova instância de RegularizationService
func NewRegularizationService(
	documents document.Repository,
	preEmissions preemission.Repository,
	branches branch.Repository,
	certificates certificate.Repository,
	access AccessChecker,
	clients ClientProvider,
	log logger.Logger,
) *RegularizationService {
	return &RegularizationService{
		documents:    documents,
		preEmissions: preEmissions,
		branches:     branches,
		certificates: certificates,
		access:       access,
		clients:      clients,
		logger:       log,
	}
}

// Regularize reenvia o documento referenciado (por ID ou chave de acesso)
// à SEFAZ. Se o documento não está em contingência pendente — já foi
// regularizado ou nunca esteve em contingência — o estado atual é
// retornado intacto e a SEFAZ não é chamada.
func (s *RegularizationService) Regularize(ctx context.Context, documentRef, userID string) (*document.Document, error) {
	doc, err := findDocumentByRef(ctx, s.documents, documentRef)
	if err != nil {
		return nil, err
	}

	// Guarda de idempotência: só contingência pendente é regularizável
	if doc.Status != document.StatusContingencyPending {
		return doc, nil
	}

	if err := ensureBranchAccess(ctx, s.access, userID, doc.BranchID); err != nil {
		return nil, err
	}
	if err := ensureValidCertificate(ctx, s.certificates, doc.BranchID); err != nil {
		return nil, err
	}

	pre, err := s.preEmissions.FindByRequestID(ctx, doc.RequestID)
	if err != nil {
		if errors.Is(err, preemission.ErrNotFound) {
			// A pré-emissão de um documento em contingência deveria sempre
			// existir; a ausência indica corrupção de dados
			return nil, apperr.NotFound("preemission_missing",
				fmt.Sprintf("pré-emissão do request ID %s não encontrada", doc.RequestID))
		}
		return nil, fmt.Errorf("falha ao buscar pré-emissão: %w", err)
	}

	br, err := s.branches.FindByID(ctx, doc.BranchID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar filial: %w", err)
	}

	resp, err := s.clients.ForBranch(br, false).Emit(ctx, pre)
	if err != nil {
		// Falha técnica de novo: o documento permanece em contingência
		// pendente e nada é persistido. Este é o único caminho do
		// subsistema que reporta falha sem transição de estado.
		if sefaz.IsTechnical(err) {
			return nil, apperr.Upstream("sefaz_unreachable",
				"SEFAZ continua indisponível, documento permanece em contingência", err)
		}
		return nil, apperr.Upstream("sefaz_communication",
			"falha inesperada na comunicação com a SEFAZ", err)
	}

	var event audit.EventType
	if resp.Status == sefaz.StatusAuthorized {
		if err := doc.MarkRegularized(resp.AccessKey, resp.Protocol, resp.SignedXML, resp.Raw, resp.Message); err != nil {
			return nil, fmt.Errorf("falha ao regularizar documento: %w", err)
		}
		event = audit.EventContingencyRegularized
	} else {
		if err := doc.MarkRejectedInContingency(resp.Raw, resp.Message); err != nil {
			return nil, fmt.Errorf("falha ao rejeitar documento em contingência: %w", err)
		}
		event = audit.EventContingencyRejected
	}

	entry := audit.NewEntry(doc.TenantID, event, &doc.ID, doc.BranchID, doc.TerminalID, userID, doc.RequestID).
		WithReturn(resp.Code, resp.Message, resp.Raw).
		WithEnvironment(string(doc.Environment), doc.UF)

	if err := s.documents.UpdateWithAudit(ctx, doc, entry); err != nil {
		return nil, apperr.Upstream("sefaz_communication",
			"falha ao persistir a regularização", err)
	}

	s.logger.Info("contingência resolvida",
		"request_id", doc.RequestID, "status", doc.Status, "number", doc.Number, "series", doc.Series)
	return doc, nil
}
