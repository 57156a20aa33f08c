package document

import (
	"context"
	"errors"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
)

// ErrNotFound ocorre quando o documento não existe
var ErrNotFound = errors.New("documento não encontrado")

// Repository define a interface para operações de repositório de documentos
// fiscais. Documento e auditoria são gravados na mesma transação: ou ambos
// ficam persistidos, ou nenhum.
type Repository interface {
	// FindByRequestID busca um documento pela chave de idempotência
	FindByRequestID(ctx context.Context, requestID string) (*Document, error)

	// FindByID busca um documento pelo ID
	FindByID(ctx context.Context, id string) (*Document, error)

	// FindByAccessKey busca um documento pela chave de acesso
	FindByAccessKey(ctx context.Context, accessKey string) (*Document, error)

	// CreateWithAudit insere documento e evento de auditoria em uma única
	// transação. Se já existir documento para o mesmo request ID (inclusive
	// por corrida), retorna o existente sem gravar nada; o booleano indica
	// se esta chamada criou o registro.
	CreateWithAudit(ctx context.Context, d *Document, a *audit.Entry) (*Document, bool, error)

	// UpdateWithAudit persiste a transição de estado do documento e o
	// evento de auditoria correspondente na mesma transação
	UpdateWithAudit(ctx context.Context, d *Document, a *audit.Entry) error

	// ExistsIssuedInRange verifica se algum documento autorizado ou
	// cancelado ocupa um número dentro de [start, end] para a série da
	// filial. Usado para impedir a inutilização de faixas já emitidas.
	ExistsIssuedInRange(ctx context.Context, branchID string, series, start, end int) (bool, error)
}
