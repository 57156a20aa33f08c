package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/certificate"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CertificateRepository implementa a interface certificate.Repository
type CertificateRepository struct {
	db *pgxpool.Pool
}

// NewCertificateRepository cria uma nova instância de CertificateRepository
func NewCertificateRepository(db *pgxpool.Pool) certificate.Repository {
	return &CertificateRepository{
		db: db,
	}
}

// Create implementa o método Create da interface certificate.Repository
func (r *CertificateRepository) Create(ctx context.Context, c *certificate.Certificate) error {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		INSERT INTO %s.branch_certificates (
			id, tenant_id, branch_id, name, certificate_data, password,
			expiration_date, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, schema)

	_, err = conn.Exec(ctx, query,
		c.ID, c.TenantID, c.BranchID, c.Name, c.CertificateData, c.Password,
		c.ExpirationDate, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("falha ao inserir certificado: %w", err)
	}

	return nil
}

// FindByID implementa o método FindByID da interface certificate.Repository
func (r *CertificateRepository) FindByID(ctx context.Context, id string) (*certificate.Certificate, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		SELECT id, tenant_id, branch_id, name, certificate_data, password,
			expiration_date, is_active, created_at, updated_at
		FROM %s.branch_certificates
		WHERE id = $1
	`, schema)

	var c certificate.Certificate
	err = conn.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.TenantID, &c.BranchID, &c.Name, &c.CertificateData, &c.Password,
		&c.ExpirationDate, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, certificate.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar certificado: %w", err)
	}

	return &c, nil
}

// FindActiveByBranch implementa o método FindActiveByBranch da interface
// certificate.Repository. Retorna o certificado ativo mais recente da filial.
func (r *CertificateRepository) FindActiveByBranch(ctx context.Context, branchID string) (*certificate.Certificate, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		SELECT id, tenant_id, branch_id, name, certificate_data, password,
			expiration_date, is_active, created_at, updated_at
		FROM %s.branch_certificates
		WHERE branch_id = $1 AND is_active = true
		ORDER BY created_at DESC
		LIMIT 1
	`, schema)

	var c certificate.Certificate
	err = conn.QueryRow(ctx, query, branchID).Scan(
		&c.ID, &c.TenantID, &c.BranchID, &c.Name, &c.CertificateData, &c.Password,
		&c.ExpirationDate, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, certificate.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar certificado ativo: %w", err)
	}

	return &c, nil
}
