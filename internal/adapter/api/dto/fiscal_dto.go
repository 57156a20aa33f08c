package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/numbering"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/preemission"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/voidrange"
)

// ReservationRequest representa os dados para reservar um número fiscal
type ReservationRequest struct {
	TerminalID string `json:"terminal_id" binding:"required"`
	Series     int    `json:"series" binding:"required"`
	RequestID  string `json:"request_id" binding:"required"`
}

// ReservationResponse representa a resposta de uma reserva de número
type ReservationResponse struct {
	ID         string    `json:"id"`
	BranchID   string    `json:"branch_id"`
	TerminalID string    `json:"terminal_id"`
	Series     int       `json:"series"`
	Number     int       `json:"number"`
	RequestID  string    `json:"request_id"`
	ReservedAt time.Time `json:"reserved_at"`
}

// NewReservationResponse converte uma reserva para o formato de resposta
func NewReservationResponse(res *numbering.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         res.ID,
		BranchID:   res.BranchID,
		TerminalID: res.TerminalID,
		Series:     res.Series,
		Number:     res.Number,
		RequestID:  res.RequestID,
		ReservedAt: res.ReservedAt,
	}
}

// SaleItem representa um item da venda na pré-emissão
type SaleItem struct {
	SKU         string          `json:"sku" binding:"required"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// SalePayment representa um pagamento da venda na pré-emissão
type SalePayment struct {
	Method string          `json:"method" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// SalePayload é a fotografia da venda enviada na pré-emissão. Os valores
// monetários usam decimal para evitar erro de ponto flutuante.
type SalePayload struct {
	Items    []SaleItem      `json:"items" binding:"required,min=1"`
	Payments []SalePayment   `json:"payments" binding:"required,min=1"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// PreEmissionRequest representa os dados para capturar uma pré-emissão
type PreEmissionRequest struct {
	RequestID string      `json:"request_id" binding:"required"`
	Sale      SalePayload `json:"sale" binding:"required"`
}

// PreEmissionResponse representa a resposta de uma pré-emissão
type PreEmissionResponse struct {
	ID         string          `json:"id"`
	BranchID   string          `json:"branch_id"`
	TerminalID string          `json:"terminal_id"`
	Series     int             `json:"series"`
	Number     int             `json:"number"`
	RequestID  string          `json:"request_id"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewPreEmissionResponse converte uma pré-emissão para o formato de resposta
func NewPreEmissionResponse(p *preemission.PreEmission) PreEmissionResponse {
	return PreEmissionResponse{
		ID:         p.ID,
		BranchID:   p.BranchID,
		TerminalID: p.TerminalID,
		Series:     p.Series,
		Number:     p.Number,
		RequestID:  p.RequestID,
		Payload:    p.Payload,
		CreatedAt:  p.CreatedAt,
	}
}

// EmissionRequest representa os dados para emitir um documento fiscal
type EmissionRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	// ForceContingency força falha técnica no cliente da SEFAZ, para
	// exercitar o caminho de contingência em homologação
	ForceContingency bool `json:"force_contingency"`
}

// DocumentResponse representa a visão reportada de um documento fiscal.
// Campos de contingência ativa (chave, protocolo) vêm vazios até a
// regularização.
type DocumentResponse struct {
	ID                string     `json:"id"`
	BranchID          string     `json:"branch_id"`
	TerminalID        string     `json:"terminal_id"`
	Number            int        `json:"number"`
	Series            int        `json:"series"`
	RequestID         string     `json:"request_id"`
	AccessKey         string     `json:"access_key,omitempty"`
	Protocol          string     `json:"protocol,omitempty"`
	Status            string     `json:"status"`
	Contingency       bool       `json:"contingency"`
	ContingencyAt     *time.Time `json:"contingency_at,omitempty"`
	ContingencyMotive string     `json:"contingency_motive,omitempty"`
	RegularizedAt     *time.Time `json:"regularized_at,omitempty"`
	Message           string     `json:"message"`
	Environment       string     `json:"environment"`
	UF                string     `json:"uf"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewDocumentResponse converte um documento para o formato de resposta,
// sempre pela visão reportada
func NewDocumentResponse(d *document.Document) DocumentResponse {
	view := d.Reported()
	return DocumentResponse{
		ID:                view.ID,
		BranchID:          view.BranchID,
		TerminalID:        view.TerminalID,
		Number:            view.Number,
		Series:            view.Series,
		RequestID:         view.RequestID,
		AccessKey:         view.AccessKey,
		Protocol:          view.Protocol,
		Status:            string(view.Status),
		Contingency:       view.Contingency,
		ContingencyAt:     view.ContingencyAt,
		ContingencyMotive: view.ContingencyMotive,
		RegularizedAt:     view.RegularizedAt,
		Message:           view.Message,
		Environment:       string(view.Environment),
		UF:                view.UF,
		CreatedAt:         view.CreatedAt,
		UpdatedAt:         view.UpdatedAt,
	}
}

// CancelRequest representa os dados para cancelar um documento autorizado
type CancelRequest struct {
	Motive string `json:"motive" binding:"required"`
}

// VoidRangeRequest representa os dados para inutilizar uma faixa de numeração
type VoidRangeRequest struct {
	BranchID    string `json:"branch_id" binding:"required"`
	Series      int    `json:"series" binding:"required"`
	StartNumber int    `json:"start_number" binding:"required"`
	EndNumber   int    `json:"end_number" binding:"required"`
	Motive      string `json:"motive" binding:"required"`
	RequestID   string `json:"request_id" binding:"required"`
}

// VoidRangeResponse representa a resposta de uma inutilização de faixa
type VoidRangeResponse struct {
	ID          string    `json:"id"`
	BranchID    string    `json:"branch_id"`
	Series      int       `json:"series"`
	StartNumber int       `json:"start_number"`
	EndNumber   int       `json:"end_number"`
	RequestID   string    `json:"request_id"`
	Protocol    string    `json:"protocol"`
	Status      string    `json:"status"`
	Motive      string    `json:"motive"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewVoidRangeResponse converte uma inutilização para o formato de resposta
func NewVoidRangeResponse(v *voidrange.VoidRange) VoidRangeResponse {
	return VoidRangeResponse{
		ID:          v.ID,
		BranchID:    v.BranchID,
		Series:      v.Series,
		StartNumber: v.StartNumber,
		EndNumber:   v.EndNumber,
		RequestID:   v.RequestID,
		Protocol:    v.Protocol,
		Status:      string(v.Status),
		Motive:      v.Motive,
		CreatedAt:   v.CreatedAt,
	}
}

// AuditEntryResponse representa um evento do diário de auditoria
type AuditEntryResponse struct {
	ID            string    `json:"id"`
	EventType     string    `json:"event_type"`
	DocumentID    *string   `json:"document_id,omitempty"`
	BranchID      string    `json:"branch_id"`
	TerminalID    string    `json:"terminal_id"`
	UserID        string    `json:"user_id"`
	RequestID     string    `json:"request_id"`
	ReturnCode    string    `json:"return_code,omitempty"`
	ReturnMessage string    `json:"return_message,omitempty"`
	Environment   string    `json:"environment"`
	UF            string    `json:"uf"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewAuditEntryResponse converte um evento de auditoria para o formato de
// resposta
func NewAuditEntryResponse(e *audit.Entry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:            e.ID,
		EventType:     string(e.EventType),
		DocumentID:    e.DocumentID,
		BranchID:      e.BranchID,
		TerminalID:    e.TerminalID,
		UserID:        e.UserID,
		RequestID:     e.RequestID,
		ReturnCode:    e.ReturnCode,
		ReturnMessage: e.ReturnMessage,
		Environment:   e.Environment,
		UF:            e.UF,
		CreatedAt:     e.CreatedAt,
	}
}
