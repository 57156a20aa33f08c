package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/terminal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TerminalRepository implementa a interface terminal.Repository
type TerminalRepository struct {
	db *pgxpool.Pool
}

// NewTerminalRepository cria uma nova instância de TerminalRepository
func NewTerminalRepository(db *pgxpool.Pool) terminal.Repository {
	return &TerminalRepository{
		db: db,
	}
}

// Create implementa o método Create da interface terminal.Repository
func (r *TerminalRepository) Create(ctx context.Context, t *terminal.Terminal) error {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		INSERT INTO %s.terminals (
			id, tenant_id, branch_id, code, description, series, last_number,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, schema)

	_, err = conn.Exec(ctx, query,
		t.ID, t.TenantID, t.BranchID, t.Code, t.Description, t.Series, t.LastNumber,
		t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir terminal: %w", err)
	}

	return nil
}

// FindByID implementa o método FindByID da interface terminal.Repository
func (r *TerminalRepository) FindByID(ctx context.Context, id string) (*terminal.Terminal, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		SELECT id, tenant_id, branch_id, code, description, series, last_number,
			status, created_at, updated_at
		FROM %s.terminals
		WHERE id = $1
	`, schema)

	var t terminal.Terminal
	err = conn.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.TenantID, &t.BranchID, &t.Code, &t.Description, &t.Series, &t.LastNumber,
		&t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, terminal.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar terminal: %w", err)
	}

	return &t, nil
}

// FindFirstByBranch implementa o método FindFirstByBranch da interface
// terminal.Repository. Retorna o terminal mais antigo da filial.
func (r *TerminalRepository) FindFirstByBranch(ctx context.Context, branchID string) (*terminal.Terminal, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		SELECT id, tenant_id, branch_id, code, description, series, last_number,
			status, created_at, updated_at
		FROM %s.terminals
		WHERE branch_id = $1
		ORDER BY created_at
		LIMIT 1
	`, schema)

	var t terminal.Terminal
	err = conn.QueryRow(ctx, query, branchID).Scan(
		&t.ID, &t.TenantID, &t.BranchID, &t.Code, &t.Description, &t.Series, &t.LastNumber,
		&t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, terminal.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar terminal da filial: %w", err)
	}

	return &t, nil
}

// ListByBranch implementa o método ListByBranch da interface terminal.Repository
func (r *TerminalRepository) ListByBranch(ctx context.Context, branchID string) ([]*terminal.Terminal, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		SELECT id, tenant_id, branch_id, code, description, series, last_number,
			status, created_at, updated_at
		FROM %s.terminals
		WHERE branch_id = $1
		ORDER BY created_at
	`, schema)

	rows, err := conn.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar terminais: %w", err)
	}
	defer rows.Close()

	terminals := []*terminal.Terminal{}
	for rows.Next() {
		var t terminal.Terminal
		err = rows.Scan(
			&t.ID, &t.TenantID, &t.BranchID, &t.Code, &t.Description, &t.Series, &t.LastNumber,
			&t.Status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler terminal: %w", err)
		}
		terminals = append(terminals, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer terminais: %w", err)
	}

	return terminals, nil
}
