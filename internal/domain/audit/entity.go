package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifica a transição de estado registrada
type EventType string

const (
	EventAuthorized             EventType = "authorized"
	EventRejected               EventType = "rejected"
	EventContingencyActivated   EventType = "contingency_activated"
	EventContingencyRegularized EventType = "contingency_regularized"
	EventContingencyRejected    EventType = "contingency_rejected"
	EventRangeVoided            EventType = "range_voided"
	EventCancelled              EventType = "cancelled"
)

// Entry é um evento do diário de auditoria fiscal. O diário é somente
// inclusão: entradas nunca são alteradas ou excluídas.
type Entry struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	EventType     EventType `json:"event_type"`
	DocumentID    *string   `json:"document_id,omitempty"` // nulo em eventos de inutilização de faixa
	BranchID      string    `json:"branch_id"`
	TerminalID    string    `json:"terminal_id"`
	UserID        string    `json:"user_id"`
	RequestID     string    `json:"request_id"`
	ReturnCode    string    `json:"return_code,omitempty"`
	ReturnMessage string    `json:"return_message,omitempty"`
	Response      string    `json:"-"`
	Environment   string    `json:"environment"`
	UF            string    `json:"uf"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewEntry cria um evento de auditoria
func NewEntry(tenantID string, event EventType, documentID *string, branchID, terminalID, userID, requestID string) *Entry {
	return &Entry{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		EventType:  event,
		DocumentID: documentID,
		BranchID:   branchID,
		TerminalID: terminalID,
		UserID:     userID,
		RequestID:  requestID,
		CreatedAt:  time.Now(),
	}
}

// WithReturn anexa código, mensagem e resposta crua da SEFAZ ao evento
func (e *Entry) WithReturn(code, message, response string) *Entry {
	e.ReturnCode = code
	e.ReturnMessage = message
	e.Response = response
	return e
}

// WithEnvironment anexa o ambiente e a UF da emissão ao evento
func (e *Entry) WithEnvironment(environment, uf string) *Entry {
	e.Environment = environment
	e.UF = uf
	return e
}
