package document

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/branch"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/preemission"
)

var (
	ErrEmptyRequestID = errors.New("request ID é obrigatório")
	ErrNotAuthorized  = errors.New("somente documentos autorizados podem ser cancelados")
	ErrNotContingency = errors.New("documento não está em contingência pendente")
)

// Status representa o estado do documento fiscal. Nenhuma transição retorna
// a um estado anterior.
type Status string

const (
	StatusAuthorized            Status = "authorized"
	StatusRejected              Status = "rejected"
	StatusContingencyPending    Status = "contingency_pending"
	StatusRejectedInContingency Status = "rejected_in_contingency"
	StatusCancelled             Status = "cancelled"
)

// AccessKeyLength é o tamanho fixo da chave de acesso de um documento
const AccessKeyLength = 44

// Document é o registro fiscal de uma tentativa de emissão e seu desfecho.
// É criado exatamente uma vez por request ID e a partir daí somente os
// campos de status/contingência transitam; nunca é excluído.
type Document struct {
	ID                string             `json:"id"`
	TenantID          string             `json:"tenant_id"`
	BranchID          string             `json:"branch_id"`
	TerminalID        string             `json:"terminal_id"`
	Number            int                `json:"number"`
	Series            int                `json:"series"`
	RequestID         string             `json:"request_id"`
	AccessKey         string             `json:"access_key"`
	Protocol          string             `json:"protocol"`
	SignedXML         string             `json:"-"`
	Status            Status             `json:"status"`
	Contingency       bool               `json:"contingency"`
	ContingencyAt     *time.Time         `json:"contingency_at,omitempty"`
	ContingencyMotive string             `json:"contingency_motive,omitempty"`
	RegularizedAt     *time.Time         `json:"regularized_at,omitempty"`
	Response          string             `json:"-"`
	Message           string             `json:"message"`
	Environment       branch.Environment `json:"environment"`
	UF                string             `json:"uf"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// PlaceholderAccessKey gera a chave de acesso provisória usada enquanto o
// documento está em contingência. Determinística por request ID, tamanho
// fixo e sem colisão prática entre requests distintos.
func PlaceholderAccessKey(requestID string) string {
	sum := sha256.Sum256([]byte(requestID))
	return hex.EncodeToString(sum[:])[:AccessKeyLength]
}

// base monta os campos comuns a qualquer documento recém-criado
func base(pre *preemission.PreEmission, br *branch.Branch) *Document {
	now := time.Now()
	return &Document{
		ID:          uuid.New().String(),
		TenantID:    pre.TenantID,
		BranchID:    pre.BranchID,
		TerminalID:  pre.TerminalID,
		Number:      pre.Number,
		Series:      pre.Series,
		RequestID:   pre.RequestID,
		Environment: br.Environment,
		UF:          br.UF,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewFromResponse cria o documento no status de negócio retornado pela
// SEFAZ (autorizado ou rejeitado)
func NewFromResponse(pre *preemission.PreEmission, br *branch.Branch, status Status, accessKey, protocol, signedXML, raw, message string) (*Document, error) {
	if pre == nil || pre.RequestID == "" {
		return nil, ErrEmptyRequestID
	}

	d := base(pre, br)
	d.Status = status
	d.AccessKey = accessKey
	d.Protocol = protocol
	d.SignedXML = signedXML
	d.Response = raw
	d.Message = message
	return d, nil
}

// NewContingency cria o documento em contingência pendente após falha
// técnica na comunicação com a SEFAZ. A chave de acesso provisória nunca é
// nula; o protocolo fica vazio até a regularização.
func NewContingency(pre *preemission.PreEmission, br *branch.Branch, motive string) (*Document, error) {
	if pre == nil || pre.RequestID == "" {
		return nil, ErrEmptyRequestID
	}

	d := base(pre, br)
	now := time.Now()
	d.Status = StatusContingencyPending
	d.Contingency = true
	d.ContingencyAt = &now
	d.ContingencyMotive = motive
	d.AccessKey = PlaceholderAccessKey(pre.RequestID)
	d.Message = "documento emitido em contingência, pendente de regularização"
	return d, nil
}

// MarkRegularized transiciona o documento de contingência pendente para
// autorizado, substituindo a chave provisória pela definitiva
func (d *Document) MarkRegularized(accessKey, protocol, signedXML, raw, message string) error {
	if d.Status != StatusContingencyPending {
		return ErrNotContingency
	}

	now := time.Now()
	d.Status = StatusAuthorized
	d.Contingency = false
	d.RegularizedAt = &now
	d.AccessKey = accessKey
	d.Protocol = protocol
	d.SignedXML = signedXML
	d.Response = raw
	d.Message = message
	d.UpdatedAt = now
	return nil
}

// MarkRejectedInContingency transiciona o documento de contingência
// pendente para rejeitado em contingência
func (d *Document) MarkRejectedInContingency(raw, message string) error {
	if d.Status != StatusContingencyPending {
		return ErrNotContingency
	}

	d.Status = StatusRejectedInContingency
	d.Contingency = false
	d.Response = raw
	d.Message = message
	d.UpdatedAt = time.Now()
	return nil
}

// MarkCancelled transiciona um documento autorizado para cancelado
func (d *Document) MarkCancelled(protocol, raw, message string) error {
	if d.Status != StatusAuthorized {
		return ErrNotAuthorized
	}

	d.Status = StatusCancelled
	d.Protocol = protocol
	d.Response = raw
	d.Message = message
	d.UpdatedAt = time.Now()
	return nil
}

// Reported retorna a visão do documento exposta aos consumidores. Enquanto
// a contingência está ativa, chave de acesso, protocolo e XML assinado são
// omitidos; os valores reais só aparecem após a regularização.
func (d *Document) Reported() *Document {
	view := *d
	if view.Contingency {
		view.AccessKey = ""
		view.Protocol = ""
		view.SignedXML = ""
	}
	return &view
}
