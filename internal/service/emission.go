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

// ClientProvider seleciona o cliente da SEFAZ para uma filial
type ClientProvider interface {
	ForBranch(b *branch.Branch, forceTechnicalFailure bool) sefaz.Client
}

// EmissionService é a máquina de estados central: leva uma pré-emissão até
// a SEFAZ e persiste documento e auditoria com o desfecho — autorizado,
// rejeitado ou contingência pendente. Falha técnica da SEFAZ não é erro:
// vira contingência e a venda segue.
type EmissionService struct {
	preEmissions preemission.Repository
	documents    document.Repository
	branches     branch.Repository
	certificates certificate.Repository
	access       AccessChecker
	clients      ClientProvider
	logger       logger.Logger
}

// NewEmissionService cria uma nova instância de EmissionService
func NewEmissionService(
	preEmissions preemission.Repository,
	documents document.Repository,
	branches branch.Repository,
	certificates certificate.Repository,
	access AccessChecker,
	clients ClientProvider,
	log logger.Logger,
) *EmissionService {
	return &EmissionService{
		preEmissions: preEmissions,
		documents:    documents,
		branches:     branches,
		certificates: certificates,
		access:       access,
		clients:      clients,
		logger:       log,
	}
}

// Emit emite o documento fiscal do request ID. Idempotente: se já existe
// documento para o request ID ele é retornado e a SEFAZ não é chamada de
// novo. forceContingency força falha técnica no cliente e só serve para
// exercitar o caminho de contingência em homologação.
func (s *EmissionService) Emit(ctx context.Context, requestID, userID string, forceContingency bool) (*document.Document, error) {
	pre, err := s.preEmissions.FindByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, preemission.ErrNotFound) {
			return nil, apperr.NotFound("preemission_not_found",
				fmt.Sprintf("não existe pré-emissão para o request ID %s", requestID))
		}
		return nil, fmt.Errorf("falha ao buscar pré-emissão: %w", err)
	}

	br, err := s.branches.FindByID(ctx, pre.BranchID)
	if err != nil {
		if errors.Is(err, branch.ErrNotFound) {
			return nil, apperr.NotFound("branch_not_found",
				fmt.Sprintf("filial %s não encontrada", pre.BranchID))
		}
		return nil, fmt.Errorf("falha ao buscar filial: %w", err)
	}

	if err := ensureBranchAccess(ctx, s.access, userID, br.ID); err != nil {
		return nil, err
	}
	if err := ensureValidCertificate(ctx, s.certificates, br.ID); err != nil {
		return nil, err
	}

	// Porta de idempotência: documento existente encerra a operação antes
	// de qualquer chamada externa
	if existing, err := s.documents.FindByRequestID(ctx, requestID); err == nil {
		return existing, nil
	} else if !errors.Is(err, document.ErrNotFound) {
		return nil, fmt.Errorf("falha ao consultar documento existente: %w", err)
	}

	client := s.clients.ForBranch(br, forceContingency)
	resp, err := client.Emit(ctx, pre)
	if err != nil {
		if sefaz.IsTechnical(err) {
			return s.activateContingency(ctx, pre, br, userID, err)
		}
		return nil, apperr.Upstream("sefaz_communication",
			"falha inesperada na comunicação com a SEFAZ", err)
	}

	status := document.StatusAuthorized
	event := audit.EventAuthorized
	if resp.Status != sefaz.StatusAuthorized {
		status = document.StatusRejected
		event = audit.EventRejected
	}

	doc, err := document.NewFromResponse(pre, br, status, resp.AccessKey, resp.Protocol, resp.SignedXML, resp.Raw, resp.Message)
	if err != nil {
		return nil, apperr.Upstream("sefaz_communication", "falha ao montar documento a partir da resposta", err)
	}

	entry := audit.NewEntry(doc.TenantID, event, &doc.ID, doc.BranchID, doc.TerminalID, userID, requestID).
		WithReturn(resp.Code, resp.Message, resp.Raw).
		WithEnvironment(string(doc.Environment), doc.UF)

	stored, created, err := s.documents.CreateWithAudit(ctx, doc, entry)
	if err != nil {
		return nil, apperr.Upstream("sefaz_communication",
			"falha ao persistir o desfecho da emissão", err)
	}
	if created {
		s.logger.Info("documento emitido",
			"request_id", requestID, "status", stored.Status, "number", stored.Number, "series", stored.Series)
	}
	return stored, nil
}

// activateContingency registra o documento em contingência pendente. Este
// caminho nunca devolve erro ao chamador: contingência é um desfecho
// normal de Emit.
func (s *EmissionService) activateContingency(ctx context.Context, pre *preemission.PreEmission, br *branch.Branch, userID string, cause error) (*document.Document, error) {
	doc, err := document.NewContingency(pre, br, cause.Error())
	if err != nil {
		return nil, apperr.Upstream("sefaz_communication", "falha ao montar documento de contingência", err)
	}

	entry := audit.NewEntry(doc.TenantID, audit.EventContingencyActivated, &doc.ID, doc.BranchID, doc.TerminalID, userID, doc.RequestID).
		WithReturn("", cause.Error(), "").
		WithEnvironment(string(doc.Environment), doc.UF)

	stored, created, err := s.documents.CreateWithAudit(ctx, doc, entry)
	if err != nil {
		return nil, apperr.Upstream("sefaz_communication",
			"falha ao persistir documento de contingência", err)
	}
	if created {
		s.logger.Warn("contingência ativada",
			"request_id", doc.RequestID, "number", doc.Number, "series", doc.Series, "motive", cause.Error())
	}
	return stored, nil
}

// Cancel cancela um documento autorizado junto à SEFAZ
func (s *EmissionService) Cancel(ctx context.Context, documentRef, motive, userID string) (*document.Document, error) {
	if len(motive) < 15 {
		return nil, apperr.Validation("invalid_motive", "justificativa de cancelamento deve ter no mínimo 15 caracteres")
	}

	doc, err := findDocumentByRef(ctx, s.documents, documentRef)
	if err != nil {
		return nil, err
	}

	if err := ensureBranchAccess(ctx, s.access, userID, doc.BranchID); err != nil {
		return nil, err
	}
	if doc.Status != document.StatusAuthorized {
		return nil, apperr.Conflict("cancel_not_allowed",
			fmt.Sprintf("documento no status %s não pode ser cancelado", doc.Status))
	}
	if err := ensureValidCertificate(ctx, s.certificates, doc.BranchID); err != nil {
		return nil, err
	}

	br, err := s.branches.FindByID(ctx, doc.BranchID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar filial: %w", err)
	}

	resp, err := s.clients.ForBranch(br, false).Cancel(ctx, doc, motive)
	if err != nil {
		return nil, apperr.Upstream("sefaz_communication",
			"falha na comunicação com a SEFAZ ao cancelar", err)
	}
	if resp.Status != sefaz.StatusAuthorized {
		return nil, apperr.Conflict("cancel_rejected",
			fmt.Sprintf("SEFAZ recusou o cancelamento: %s", resp.Message))
	}

	if err := doc.MarkCancelled(resp.Protocol, resp.Raw, resp.Message); err != nil {
		return nil, apperr.Conflict("cancel_not_allowed", err.Error())
	}

	entry := audit.NewEntry(doc.TenantID, audit.EventCancelled, &doc.ID, doc.BranchID, doc.TerminalID, userID, doc.RequestID).
		WithReturn(resp.Code, resp.Message, resp.Raw).
		WithEnvironment(string(doc.Environment), doc.UF)

	if err := s.documents.UpdateWithAudit(ctx, doc, entry); err != nil {
		return nil, apperr.Upstream("sefaz_communication",
			"falha ao persistir o cancelamento", err)
	}

	s.logger.Info("documento cancelado", "request_id", doc.RequestID, "access_key", doc.AccessKey)
	return doc, nil
}

// findDocumentByRef localiza um documento por ID ou por chave de acesso
func findDocumentByRef(ctx context.Context, docs document.Repository, ref string) (*document.Document, error) {
	doc, err := docs.FindByID(ctx, ref)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, document.ErrNotFound) {
		return nil, fmt.Errorf("falha ao buscar documento: %w", err)
	}

	doc, err = docs.FindByAccessKey(ctx, ref)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, apperr.NotFound("document_not_found",
				fmt.Sprintf("documento %s não encontrado", ref))
		}
		return nil, fmt.Errorf("falha ao buscar documento: %w", err)
	}
	return doc, nil
}
