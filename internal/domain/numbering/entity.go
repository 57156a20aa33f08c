package numbering

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyRequestID  = errors.New("request ID é obrigatório")
	ErrEmptyTerminalID = errors.New("ID do terminal é obrigatório")
)

// Reservation representa um número de documento fiscal reservado para um
// (filial, terminal, série). O RequestID é a chave de idempotência: existe
// no máximo uma reserva por RequestID, nunca alterada e nunca excluída
// (retenção legal).
type Reservation struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	BranchID   string    `json:"branch_id"`
	TerminalID string    `json:"terminal_id"`
	Series     int       `json:"series"`
	Number     int       `json:"number"`
	RequestID  string    `json:"request_id"`
	ReservedBy string    `json:"reserved_by"`
	ReservedAt time.Time `json:"reserved_at"`
}

// NewReservation cria uma reserva ainda sem número alocado. O número é
// atribuído pelo repositório sob o lock do terminal.
func NewReservation(tenantID, branchID, terminalID string, series int, requestID, userID string) (*Reservation, error) {
	if terminalID == "" {
		return nil, ErrEmptyTerminalID
	}
	if requestID == "" {
		return nil, ErrEmptyRequestID
	}

	return &Reservation{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		BranchID:   branchID,
		TerminalID: terminalID,
		Series:     series,
		RequestID:  requestID,
		ReservedBy: userID,
		ReservedAt: time.Now(),
	}, nil
}
