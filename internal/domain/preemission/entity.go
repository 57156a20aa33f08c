package preemission

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/numbering"
)

var (
	ErrEmptyRequestID = errors.New("request ID é obrigatório")
	ErrEmptyPayload   = errors.New("payload da venda é obrigatório")
)

// PreEmission é a fotografia imutável dos dados da venda no momento em que
// ela foi fechada: itens, pagamentos e totais exatamente como serão enviados
// à SEFAZ. O núcleo fiscal não interpreta o payload; ele apenas o preserva.
// Existe no máximo uma pré-emissão por request ID e o payload nunca é
// sobrescrito depois de criado.
type PreEmission struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenant_id"`
	BranchID   string          `json:"branch_id"`
	TerminalID string          `json:"terminal_id"`
	Series     int             `json:"series"`
	Number     int             `json:"number"`
	RequestID  string          `json:"request_id"`
	Payload    json.RawMessage `json:"payload"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewPreEmission cria uma pré-emissão a partir da reserva correspondente
func NewPreEmission(res *numbering.Reservation, payload json.RawMessage, userID string) (*PreEmission, error) {
	if res == nil || res.RequestID == "" {
		return nil, ErrEmptyRequestID
	}
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	return &PreEmission{
		ID:         uuid.New().String(),
		TenantID:   res.TenantID,
		BranchID:   res.BranchID,
		TerminalID: res.TerminalID,
		Series:     res.Series,
		Number:     res.Number,
		RequestID:  res.RequestID,
		Payload:    payload,
		CreatedBy:  userID,
		CreatedAt:  time.Now(),
	}, nil
}
