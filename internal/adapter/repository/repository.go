// Package repository contém as implementações PostgreSQL dos repositórios
// do núcleo fiscal. Cada tenant possui um schema próprio, resolvido a cada
// operação a partir do tenant ID presente no contexto.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/pkg/tenant"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation é o código SQLSTATE de violação de constraint única
const uniqueViolation = "23505"

// tenantConn adquire uma conexão do pool e resolve o schema do tenant do
// contexto. O chamador é responsável por liberar a conexão.
func tenantConn(ctx context.Context, db *pgxpool.Pool) (*pgxpool.Conn, string, error) {
	conn, err := db.Acquire(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("falha ao adquirir conexão: %w", err)
	}

	tenantID := tenant.GetTenantIDFromContext(ctx)
	if tenantID == "" {
		conn.Release()
		return nil, "", fmt.Errorf("tenant ID não encontrado no contexto")
	}

	if _, err := conn.Exec(ctx, "SET search_path TO public"); err != nil {
		conn.Release()
		return nil, "", fmt.Errorf("falha ao configurar search_path: %w", err)
	}

	var schema string
	if err := conn.QueryRow(ctx, "SELECT schema FROM tenants WHERE id = $1", tenantID).Scan(&schema); err != nil {
		conn.Release()
		return nil, "", fmt.Errorf("falha ao obter schema do tenant: %w", err)
	}

	return conn, schema, nil
}

// isUniqueViolation verifica se o erro é uma violação de constraint única
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
