package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository implementa a interface document.Repository
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository cria uma nova instância de DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) document.Repository {
	return &DocumentRepository{
		db: db,
	}
}

// FindByRequestID implementa o método FindByRequestID da interface
// document.Repository
func (r *DocumentRepository) FindByRequestID(ctx context.Context, requestID string) (*document.Document, error) {
	return r.findBy(ctx, "request_id", requestID)
}

// FindByID implementa o método FindByID da interface document.Repository
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*document.Document, error) {
	return r.findBy(ctx, "id", id)
}

// FindByAccessKey implementa o método FindByAccessKey da interface
// document.Repository
func (r *DocumentRepository) FindByAccessKey(ctx context.Context, accessKey string) (*document.Document, error) {
	return r.findBy(ctx, "access_key", accessKey)
}

func (r *DocumentRepository) findBy(ctx context.Context, column, value string) (*document.Document, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf("%s WHERE %s = $1", documentSelect(schema), column)
	d, err := scanDocument(conn.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, document.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar documento: %w", err)
	}
	return d, nil
}

// CreateWithAudit implementa o método CreateWithAudit da interface
// document.Repository. Documento e evento de auditoria são gravados na mesma
// transação. O insert do documento corre dentro de um savepoint: se a
// constraint única de request_id acusar corrida, o savepoint é desfeito, o
// documento vencedor é relido e nenhuma auditoria é gravada por esta chamada.
func (r *DocumentRepository) CreateWithAudit(ctx context.Context, d *document.Document, a *audit.Entry) (*document.Document, bool, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, false, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("falha ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	sp, err := tx.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("falha ao criar savepoint: %w", err)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s.fiscal_documents (
			id, tenant_id, branch_id, terminal_id, number, series, request_id,
			access_key, protocol, signed_xml, status, contingency, contingency_at,
			contingency_motive, regularized_at, response, message, environment, uf,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21
		)
	`, schema)

	_, err = sp.Exec(ctx, insertQuery,
		d.ID, d.TenantID, d.BranchID, d.TerminalID, d.Number, d.Series, d.RequestID,
		d.AccessKey, d.Protocol, d.SignedXML, d.Status, d.Contingency, d.ContingencyAt,
		d.ContingencyMotive, d.RegularizedAt, d.Response, d.Message, d.Environment, d.UF,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if rbErr := sp.Rollback(ctx); rbErr != nil {
				return nil, false, fmt.Errorf("falha ao desfazer savepoint: %w", rbErr)
			}
			query := fmt.Sprintf("%s WHERE request_id = $1", documentSelect(schema))
			winner, findErr := scanDocument(tx.QueryRow(ctx, query, d.RequestID))
			if findErr != nil {
				return nil, false, fmt.Errorf("falha ao reler documento vencedor: %w", findErr)
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("falha ao inserir documento: %w", err)
	}
	if err := sp.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("falha ao confirmar savepoint: %w", err)
	}

	if err := insertAuditTx(ctx, tx, schema, a); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("falha ao confirmar documento: %w", err)
	}

	return d, true, nil
}

// UpdateWithAudit implementa o método UpdateWithAudit da interface
// document.Repository. A transição de estado e o evento de auditoria são
// gravados na mesma transação.
func (r *DocumentRepository) UpdateWithAudit(ctx context.Context, d *document.Document, a *audit.Entry) error {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	updateQuery := fmt.Sprintf(`
		UPDATE %s.fiscal_documents
		SET access_key = $2, protocol = $3, signed_xml = $4, status = $5,
			contingency = $6, regularized_at = $7, response = $8, message = $9,
			updated_at = $10
		WHERE id = $1
	`, schema)

	tag, err := tx.Exec(ctx, updateQuery,
		d.ID, d.AccessKey, d.Protocol, d.SignedXML, d.Status,
		d.Contingency, d.RegularizedAt, d.Response, d.Message,
		d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao atualizar documento: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrNotFound
	}

	if err := insertAuditTx(ctx, tx, schema, a); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("falha ao confirmar atualização: %w", err)
	}

	return nil
}

// ExistsIssuedInRange implementa o método ExistsIssuedInRange da interface
// document.Repository
func (r *DocumentRepository) ExistsIssuedInRange(ctx context.Context, branchID string, series, start, end int) (bool, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		SELECT EXISTS(
			SELECT 1 FROM %s.fiscal_documents
			WHERE branch_id = $1 AND series = $2
				AND number BETWEEN $3 AND $4
				AND status IN ($5, $6)
		)
	`, schema)

	var exists bool
	err = conn.QueryRow(ctx, query, branchID, series, start, end,
		document.StatusAuthorized, document.StatusCancelled).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("falha ao verificar documentos na faixa: %w", err)
	}

	return exists, nil
}

func documentSelect(schema string) string {
	return fmt.Sprintf(`
		SELECT id, tenant_id, branch_id, terminal_id, number, series, request_id,
			access_key, protocol, signed_xml, status, contingency, contingency_at,
			contingency_motive, regularized_at, response, message, environment, uf,
			created_at, updated_at
		FROM %s.fiscal_documents
	`, schema)
}

func scanDocument(row pgx.Row) (*document.Document, error) {
	var d document.Document
	err := row.Scan(
		&d.ID, &d.TenantID, &d.BranchID, &d.TerminalID, &d.Number, &d.Series, &d.RequestID,
		&d.AccessKey, &d.Protocol, &d.SignedXML, &d.Status, &d.Contingency, &d.ContingencyAt,
		&d.ContingencyMotive, &d.RegularizedAt, &d.Response, &d.Message, &d.Environment, &d.UF,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
