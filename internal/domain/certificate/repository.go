package certificate

import (
	"context"
	"errors"
)

// ErrNotFound ocorre quando não há certificado ativo para a filial
var ErrNotFound = errors.New("certificado não encontrado")

// Repository define a interface para operações de repositório de certificados
type Repository interface {
	// Create cria um novo certificado
	Create(ctx context.Context, c *Certificate) error

	// FindByID busca um certificado pelo ID
	FindByID(ctx context.Context, id string) (*Certificate, error)

	// FindActiveByBranch busca o certificado ativo de uma filial
	FindActiveByBranch(ctx context.Context, branchID string) (*Certificate, error)
}
