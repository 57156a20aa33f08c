package preemission

import (
	"context"
	"errors"
)

// ErrNotFound ocorre quando não existe pré-emissão para o request ID
var ErrNotFound = errors.New("pré-emissão não encontrada")

// Repository define a interface para operações de pré-emissão
type Repository interface {
	// FindByRequestID busca uma pré-emissão pela chave de idempotência
	FindByRequestID(ctx context.Context, requestID string) (*PreEmission, error)

	// CreateIfAbsent insere a pré-emissão; se já existir uma para o mesmo
	// request ID (inclusive por corrida), retorna a existente sem alterar
	// o payload. O booleano indica se esta chamada criou o registro.
	CreateIfAbsent(ctx context.Context, p *PreEmission) (*PreEmission, bool, error)
}
