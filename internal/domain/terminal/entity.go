package terminal

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTenantID = errors.New("ID do tenant não pode ser vazio")
	ErrEmptyBranchID = errors.New("ID da filial não pode ser vazio")
	ErrEmptyCode     = errors.New("código do terminal não pode ser vazio")
	ErrInvalidSeries = errors.New("série do terminal deve ser maior que zero")
)

// Status representa o estado do terminal
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Terminal representa um ponto de venda vinculado a uma filial.
// Cada terminal é dono de uma sequência de numeração por série; o campo
// LastNumber é o contador (último número alocado) e só é alterado sob
// lock exclusivo da linha.
type Terminal struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	BranchID    string    `json:"branch_id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Series      int       `json:"series"`
	LastNumber  int       `json:"last_number"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTerminal cria um novo terminal
func NewTerminal(tenantID, branchID, code, description string, series int) (*Terminal, error) {
	if tenantID == "" {
		return nil, ErrEmptyTenantID
	}
	if branchID == "" {
		return nil, ErrEmptyBranchID
	}
	if code == "" {
		return nil, ErrEmptyCode
	}
	if series <= 0 {
		return nil, ErrInvalidSeries
	}

	now := time.Now()
	return &Terminal{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		BranchID:    branchID,
		Code:        code,
		Description: description,
		Series:      series,
		LastNumber:  0,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsActive verifica se o terminal está ativo
func (t *Terminal) IsActive() bool {
	return t.Status == StatusActive
}
