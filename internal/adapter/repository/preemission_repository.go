package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/preemission"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreEmissionRepository implementa a interface preemission.Repository
type PreEmissionRepository struct {
	db *pgxpool.Pool
}

// NewPreEmissionRepository cria uma nova instância de PreEmissionRepository
func NewPreEmissionRepository(db *pgxpool.Pool) preemission.Repository {
	return &PreEmissionRepository{
		db: db,
	}
}

// FindByRequestID implementa o método FindByRequestID da interface
// preemission.Repository
func (r *PreEmissionRepository) FindByRequestID(ctx context.Context, requestID string) (*preemission.PreEmission, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	p, err := scanPreEmission(conn.QueryRow(ctx, preEmissionQuery(schema), requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, preemission.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar pré-emissão: %w", err)
	}
	return p, nil
}

// CreateIfAbsent implementa o método CreateIfAbsent da interface
// preemission.Repository. O insert aposta que não existe pré-emissão para o
// request ID; se a constraint única acusar corrida, a pré-emissão vencedora
// é relida e retornada, e o payload recebido é descartado.
func (r *PreEmissionRepository) CreateIfAbsent(ctx context.Context, p *preemission.PreEmission) (*preemission.PreEmission, bool, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, false, err
	}
	defer conn.Release()

	query := fmt.Sprintf(`
		INSERT INTO %s.pre_emissions (
			id, tenant_id, branch_id, terminal_id, series, number, request_id,
			payload, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, schema)

	_, err = conn.Exec(ctx, query,
		p.ID, p.TenantID, p.BranchID, p.TerminalID, p.Series, p.Number, p.RequestID,
		p.Payload, p.CreatedBy, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			winner, findErr := scanPreEmission(conn.QueryRow(ctx, preEmissionQuery(schema), p.RequestID))
			if findErr != nil {
				return nil, false, fmt.Errorf("falha ao reler pré-emissão vencedora: %w", findErr)
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("falha ao inserir pré-emissão: %w", err)
	}

	return p, true, nil
}

func preEmissionQuery(schema string) string {
	return fmt.Sprintf(`
		SELECT id, tenant_id, branch_id, terminal_id, series, number, request_id,
			payload, created_by, created_at
		FROM %s.pre_emissions
		WHERE request_id = $1
	`, schema)
}

func scanPreEmission(row pgx.Row) (*preemission.PreEmission, error) {
	var p preemission.PreEmission
	err := row.Scan(
		&p.ID, &p.TenantID, &p.BranchID, &p.TerminalID, &p.Series, &p.Number, &p.RequestID,
		&p.Payload, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
