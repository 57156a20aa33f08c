package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/voidrange"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VoidRangeRepository implementa a interface voidrange.Repository
type VoidRangeRepository struct {
	db *pgxpool.Pool
}

// NewVoidRangeRepository cria uma nova instância de VoidRangeRepository
func NewVoidRangeRepository(db *pgxpool.Pool) voidrange.Repository {
	return &VoidRangeRepository{
		db: db,
	}
}

// FindByRequestID implementa o método FindByRequestID da interface
// voidrange.Repository
func (r *VoidRangeRepository) FindByRequestID(ctx context.Context, requestID string) (*voidrange.VoidRange, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf("%s WHERE request_id = $1", voidRangeSelect(schema))
	v, err := scanVoidRange(conn.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, voidrange.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar inutilização: %w", err)
	}
	return v, nil
}

// FindByRange implementa o método FindByRange da interface
// voidrange.Repository
func (r *VoidRangeRepository) FindByRange(ctx context.Context, branchID string, series, start, end int) (*voidrange.VoidRange, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := fmt.Sprintf(
		"%s WHERE branch_id = $1 AND series = $2 AND start_number = $3 AND end_number = $4",
		voidRangeSelect(schema))
	v, err := scanVoidRange(conn.QueryRow(ctx, query, branchID, series, start, end))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, voidrange.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar inutilização por faixa: %w", err)
	}
	return v, nil
}

// CreateWithAudit implementa o método CreateWithAudit da interface
// voidrange.Repository. Inutilização e evento de auditoria são gravados na
// mesma transação; se a corrida for perdida (request ID ou faixa idêntica),
// o registro vencedor é relido e nenhuma auditoria é gravada por esta chamada.
func (r *VoidRangeRepository) CreateWithAudit(ctx context.Context, v *voidrange.VoidRange, a *audit.Entry) (*voidrange.VoidRange, bool, error) {
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
		INSERT INTO %s.void_ranges (
			id, tenant_id, branch_id, series, start_number, end_number, request_id,
			protocol, status, motive, response, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, schema)

	_, err = sp.Exec(ctx, insertQuery,
		v.ID, v.TenantID, v.BranchID, v.Series, v.StartNumber, v.EndNumber, v.RequestID,
		v.Protocol, v.Status, v.Motive, v.Response, v.CreatedBy, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if rbErr := sp.Rollback(ctx); rbErr != nil {
				return nil, false, fmt.Errorf("falha ao desfazer savepoint: %w", rbErr)
			}
			winner, findErr := r.findWinnerTx(ctx, tx, schema, v)
			if findErr != nil {
				return nil, false, findErr
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("falha ao inserir inutilização: %w", err)
	}
	if err := sp.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("falha ao confirmar savepoint: %w", err)
	}

	if err := insertAuditTx(ctx, tx, schema, a); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("falha ao confirmar inutilização: %w", err)
	}

	return v, true, nil
}

// findWinnerTx relê o registro que venceu a corrida: primeiro por request ID,
// depois por faixa exata (as duas constraints únicas possíveis)
func (r *VoidRangeRepository) findWinnerTx(ctx context.Context, tx pgx.Tx, schema string, v *voidrange.VoidRange) (*voidrange.VoidRange, error) {
	query := fmt.Sprintf("%s WHERE request_id = $1", voidRangeSelect(schema))
	winner, err := scanVoidRange(tx.QueryRow(ctx, query, v.RequestID))
	if err == nil {
		return winner, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("falha ao reler inutilização vencedora: %w", err)
	}

	query = fmt.Sprintf(
		"%s WHERE branch_id = $1 AND series = $2 AND start_number = $3 AND end_number = $4",
		voidRangeSelect(schema))
	winner, err = scanVoidRange(tx.QueryRow(ctx, query, v.BranchID, v.Series, v.StartNumber, v.EndNumber))
	if err != nil {
		return nil, fmt.Errorf("falha ao reler inutilização vencedora: %w", err)
	}
	return winner, nil
}

func voidRangeSelect(schema string) string {
	return fmt.Sprintf(`
		SELECT id, tenant_id, branch_id, series, start_number, end_number, request_id,
			protocol, status, motive, response, created_by, created_at
		FROM %s.void_ranges
	`, schema)
}

func scanVoidRange(row pgx.Row) (*voidrange.VoidRange, error) {
	var v voidrange.VoidRange
	err := row.Scan(
		&v.ID, &v.TenantID, &v.BranchID, &v.Series, &v.StartNumber, &v.EndNumber, &v.RequestID,
		&v.Protocol, &v.Status, &v.Motive, &v.Response, &v.CreatedBy, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
