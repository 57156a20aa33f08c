package voidrange

import (
	"context"
	"errors"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
)

// ErrNotFound ocorre quando a inutilização não existe
var ErrNotFound = errors.New("inutilização de faixa não encontrada")

// Repository define a interface para operações de inutilização de faixa
type Repository interface {
	// FindByRequestID busca uma inutilização pela chave de idempotência
	FindByRequestID(ctx context.Context, requestID string) (*VoidRange, error)

	// FindByRange busca uma inutilização pela faixa exata. Permite tolerar
	// reenvio duplicado mesmo sem request ID compartilhado.
	FindByRange(ctx context.Context, branchID string, series, start, end int) (*VoidRange, error)

	// CreateWithAudit insere a inutilização e o evento de auditoria em uma
	// única transação. Se já existir registro para o mesmo request ID,
	// retorna o existente; o booleano indica se esta chamada criou.
	CreateWithAudit(ctx context.Context, v *VoidRange, a *audit.Entry) (*VoidRange, bool, error)
}
