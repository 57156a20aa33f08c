package terminal

import (
	"context"
	"errors"
)

// ErrNotFound ocorre quando o terminal não existe
var ErrNotFound = errors.New("terminal não encontrado")

// Repository define a interface para operações de repositório de terminais
type Repository interface {
	// Create cria um novo terminal
	Create(ctx context.Context, t *Terminal) error

	// FindByID busca um terminal pelo ID
	FindByID(ctx context.Context, id string) (*Terminal, error)

	// FindFirstByBranch busca o terminal mais antigo de uma filial.
	// Usado para atribuir auditoria de operações que são da filial como um
	// todo (inutilização de faixa). Retorna ErrNotFound se a filial não
	// possui terminais.
	FindFirstByBranch(ctx context.Context, branchID string) (*Terminal, error)

	// ListByBranch lista os terminais de uma filial
	ListByBranch(ctx context.Context, branchID string) ([]*Terminal, error)
}
