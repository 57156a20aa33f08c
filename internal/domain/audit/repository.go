package audit

import (
	"context"
)

// Repository define a interface do diário de auditoria (somente inclusão)
type Repository interface {
	// Append registra um evento no diário
	Append(ctx context.Context, e *Entry) error

	// ListByRequestID lista os eventos de um request ID em ordem de criação
	ListByRequestID(ctx context.Context, requestID string) ([]*Entry, error)

	// ListByDocument lista os eventos de um documento em ordem de criação
	ListByDocument(ctx context.Context, documentID string) ([]*Entry, error)
}
