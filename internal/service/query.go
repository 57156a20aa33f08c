package service

import (
	"context"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
)

// DocumentQueryService responde consultas de documentos e do diário de
// auditoria. Toda leitura passa pela visão reportada: campos de contingência
// ativa (chave, protocolo, XML) são omitidos até a regularização.
type DocumentQueryService struct {
	documents document.Repository
	audits    audit.Repository
	access    AccessChecker
}

// NewDocumentQueryService cria uma nova instância de DocumentQueryService
func NewDocumentQueryService(documents document.Repository, audits audit.Repository, access AccessChecker) *DocumentQueryService {
	return &DocumentQueryService{
		documents: documents,
		audits:    audits,
		access:    access,
	}
}

// Get busca um documento por ID ou chave de acesso e retorna a visão
// reportada dele
func (s *DocumentQueryService) Get(ctx context.Context, documentRef, userID string) (*document.Document, error) {
	doc, err := findDocumentByRef(ctx, s.documents, documentRef)
	if err != nil {
		return nil, err
	}
	if err := ensureBranchAccess(ctx, s.access, userID, doc.BranchID); err != nil {
		return nil, err
	}
	return doc.Reported(), nil
}

// AuditTrail retorna os eventos de auditoria de um documento em ordem
// cronológica
func (s *DocumentQueryService) AuditTrail(ctx context.Context, documentRef, userID string) ([]*audit.Entry, error) {
	doc, err := findDocumentByRef(ctx, s.documents, documentRef)
	if err != nil {
		return nil, err
	}
	if err := ensureBranchAccess(ctx, s.access, userID, doc.BranchID); err != nil {
		return nil, err
	}

	entries, err := s.audits.ListByRequestID(ctx, doc.RequestID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar auditoria do documento: %w", err)
	}
	return entries, nil
}
