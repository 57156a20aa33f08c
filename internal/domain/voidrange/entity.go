package voidrange

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinMotiveLength é o tamanho mínimo da justificativa de inutilização,
// exigência de conformidade para evitar justificativas vazias
const MinMotiveLength = 15

var (
	ErrInvalidRange   = errors.New("faixa inválida: início e fim devem ser positivos e início <= fim")
	ErrMotiveTooShort = errors.New("justificativa deve ter no mínimo 15 caracteres")
	ErrEmptyRequestID = errors.New("request ID é obrigatório")
)

// Status representa o desfecho da inutilização
type Status string

const (
	StatusVoided Status = "voided"
)

// VoidRange registra uma faixa de numeração permanentemente inutilizada
// para uma (filial, série). A faixa não pode conter nenhum documento
// autorizado ou cancelado.
type VoidRange struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	BranchID    string    `json:"branch_id"`
	Series      int       `json:"series"`
	StartNumber int       `json:"start_number"`
	EndNumber   int       `json:"end_number"`
	RequestID   string    `json:"request_id"`
	Protocol    string    `json:"protocol"`
	Status      Status    `json:"status"`
	Motive      string    `json:"motive"`
	Response    string    `json:"-"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidateRange valida os limites da faixa e a justificativa
func ValidateRange(start, end int, motive string) error {
	if start <= 0 || end <= 0 || start > end {
		return ErrInvalidRange
	}
	if len(strings.TrimSpace(motive)) < MinMotiveLength {
		return ErrMotiveTooShort
	}
	return nil
}

// NewVoidRange cria um registro de inutilização de faixa
func NewVoidRange(tenantID, branchID string, series, start, end int, motive, requestID, protocol, response, userID string) (*VoidRange, error) {
	if err := ValidateRange(start, end, motive); err != nil {
		return nil, err
	}
	if requestID == "" {
		return nil, ErrEmptyRequestID
	}

	return &VoidRange{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		BranchID:    branchID,
		Series:      series,
		StartNumber: start,
		EndNumber:   end,
		RequestID:   requestID,
		Protocol:    protocol,
		Status:      StatusVoided,
		Motive:      motive,
		Response:    response,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}, nil
}
