package repository

import (
	"context"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepository implementa a interface audit.Repository
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository cria uma nova instância de AuditRepository
func NewAuditRepository(db *pgxpool.Pool) audit.Repository {
	return &AuditRepository{
		db: db,
	}
}

// Append implementa o método Append da interface audit.Repository
func (r *AuditRepository) Append(ctx context.Context, e *audit.Entry) error {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, auditInsertQuery(schema), auditInsertArgs(e)...)
	if err != nil {
		return fmt.Errorf("falha ao inserir evento de auditoria: %w", err)
	}
	return nil
}

// ListByRequestID implementa o método ListByRequestID da interface
// audit.Repository
func (r *AuditRepository) ListByRequestID(ctx context.Context, requestID string) ([]*audit.Entry, error) {
	return r.list(ctx, "request_id", requestID)
}

// ListByDocument implementa o método ListByDocument da interface
// audit.Repository
func (r *AuditRepository) ListByDocument(ctx context.Context, documentID string) ([]*audit.Entry, error) {
	return r.list(ctx, "document_id", documentID)
}

func (r *AuditRepository) list(ctx context.Context, column, value string) ([]*audit.Entry, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		SELECT id, tenant_id, event_type, document_id, branch_id, terminal_id,
			user_id, request_id, return_code, return_message, response,
			environment, uf, created_at
		FROM %s.fiscal_audits
		WHERE %s = $1
		ORDER BY created_at
	`, schema, column)

	rows, err := conn.Query(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar auditoria: %w", err)
	}
	defer rows.Close()

	entries := []*audit.Entry{}
	for rows.Next() {
		var e audit.Entry
		err = rows.Scan(
			&e.ID, &e.TenantID, &e.EventType, &e.DocumentID, &e.BranchID, &e.TerminalID,
			&e.UserID, &e.RequestID, &e.ReturnCode, &e.ReturnMessage, &e.Response,
			&e.Environment, &e.UF, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler evento de auditoria: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer auditoria: %w", err)
	}

	return entries, nil
}

// insertAuditTx grava um evento de auditoria dentro da transação do chamador.
// Usado pelos repositórios que persistem documento e auditoria atomicamente.
func insertAuditTx(ctx context.Context, tx pgx.Tx, schema string, e *audit.Entry) error {
	_, err := tx.Exec(ctx, auditInsertQuery(schema), auditInsertArgs(e)...)
	if err != nil {
		return fmt.Errorf("falha ao inserir evento de auditoria: %w", err)
	}
	return nil
}

func auditInsertQuery(schema string) string {
	return fmt.Sprintf(`
		INSERT INTO %s.fiscal_audits (
			id, tenant_id, event_type, document_id, branch_id, terminal_id,
			user_id, request_id, return_code, return_message, response,
			environment, uf, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, schema)
}

func auditInsertArgs(e *audit.Entry) []interface{} {
	return []interface{}{
		e.ID, e.TenantID, e.EventType, e.DocumentID, e.BranchID, e.TerminalID,
		e.UserID, e.RequestID, e.ReturnCode, e.ReturnMessage, e.Response,
		e.Environment, e.UF, e.CreatedAt,
	}
}
