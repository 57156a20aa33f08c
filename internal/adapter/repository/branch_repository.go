package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/branch"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BranchRepository implementa a interface branch.Repository
type BranchRepository struct {
	db *pgxpool.Pool
}

// NewBranchRepository cria uma nova instância de BranchRepository
func NewBranchRepository(db *pgxpool.Pool) branch.Repository {
	return &BranchRepository{
		db: db,
	}
}

// Create implementa o método Create da interface branch.Repository
func (r *BranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		INSERT INTO %s.branches (
			id, tenant_id, name, code, document, uf, environment, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, schema)

	_, err = conn.Exec(ctx, query,
		b.ID, b.TenantID, b.Name, b.Code, b.Document, b.UF, b.Environment, b.Status,
		b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir filial: %w", err)
	}

	return nil
}

// FindByID implementa o método FindByID da interface branch.Repository
func (r *BranchRepository) FindByID(ctx context.Context, id string) (*branch.Branch, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		SELECT id, tenant_id, name, code, document, uf, environment, status,
			created_at, updated_at
		FROM %s.branches
		WHERE id = $1
	`, schema)

	var b branch.Branch
	err = conn.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.TenantID, &b.Name, &b.Code, &b.Document, &b.UF, &b.Environment, &b.Status,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, branch.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar filial: %w", err)
	}

	return &b, nil
}

// List implementa o método List da interface branch.Repository
func (r *BranchRepository) List(ctx context.Context, tenantID string, limit, offset int) ([]*branch.Branch, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		SELECT id, tenant_id, name, code, document, uf, environment, status,
			created_at, updated_at
		FROM %s.branches
		WHERE tenant_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`, schema)

	rows, err := conn.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar filiais: %w", err)
	}
	defer rows.Close()

	branches := []*branch.Branch{}
	for rows.Next() {
		var b branch.Branch
		err = rows.Scan(
			&b.ID, &b.TenantID, &b.Name, &b.Code, &b.Document, &b.UF, &b.Environment, &b.Status,
			&b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler filial: %w", err)
		}
		branches = append(branches, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer filiais: %w", err)
	}

	return branches, nil
}
