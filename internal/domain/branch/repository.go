package branch

import (
	"context"
	"errors"
)

// ErrNotFound ocorre quando a filial não existe
var ErrNotFound = errors.New("filial não encontrada")

// Repository define a interface para operações de repositório de filiais
type Repository interface {
	// Create cria uma nova filial
	Create(ctx context.Context, b *Branch) error

	// FindByID busca uma filial pelo ID
	FindByID(ctx context.Context, id string) (*Branch, error)

	// List lista as filiais de um tenant com paginação
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Branch, error)
}
