package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/pkg/tenant"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantValidator valida tenants contra a tabela pública de tenants
type TenantValidator struct {
	db *pgxpool.Pool
}

// NewTenantValidator cria uma nova instância de TenantValidator
func NewTenantValidator(db *pgxpool.Pool) tenant.Validator {
	return &TenantValidator{
		db: db,
	}
}

// ValidateTenant verifica se um tenant existe e está ativo
func (v *TenantValidator) ValidateTenant(ctx context.Context, tenantID string) (bool, error) {
	if tenantID == "" {
		return false, nil
	}

	conn, err := v.db.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("falha ao adquirir conexão: %w", err)
	}
	defer conn.Release()

	var status string
	err = conn.QueryRow(ctx, "SELECT status FROM public.tenants WHERE id = $1", tenantID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("falha ao buscar tenant: %w", err)
	}

	return status == "active", nil
}
