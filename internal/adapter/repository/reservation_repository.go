package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/numbering"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/terminal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationRepository implementa a interface numbering.Repository
type ReservationRepository struct {
	db *pgxpool.Pool
}

// NewReservationRepository cria uma nova instância de ReservationRepository
func NewReservationRepository(db *pgxpool.Pool) numbering.Repository {
	return &ReservationRepository{
		db: db,
	}
}

// FindByRequestID implementa o método FindByRequestID da interface
// numbering.Repository
func (r *ReservationRepository) FindByRequestID(ctx context.Context, requestID string) (*numbering.Reservation, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	res, err := findReservation(ctx, conn, schema, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, numbering.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao buscar reserva: %w", err)
	}
	return res, nil
}

// Allocate implementa o método Allocate da interface numbering.Repository.
//
// A transação trava a linha do terminal com SELECT ... FOR UPDATE, de modo
// que o incremento do contador e o insert da reserva são uma seção crítica:
// N requests distintos produzem N números contíguos. A unicidade por request
// ID é garantida pela constraint única; quem perde a corrida faz rollback
// para o savepoint e relê a reserva vencedora, sem consumir número.
func (r *ReservationRepository) Allocate(ctx context.Context, terminalID string, series int, requestID, userID string) (*numbering.Reservation, error) {
	conn, schema, err := tenantConn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao iniciar transação: %w", err)
	}
	defer tx.Rollback(ctx)

	var tenantID, branchID string
	lockQuery := fmt.Sprintf(`
		SELECT tenant_id, branch_id
		FROM %s.terminals
		WHERE id = $1
		FOR UPDATE
	`, schema)
	err = tx.QueryRow(ctx, lockQuery, terminalID).Scan(&tenantID, &branchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, terminal.ErrNotFound
		}
		return nil, fmt.Errorf("falha ao travar terminal: %w", err)
	}

	// Sob o lock, a releitura por request ID decide a idempotência para
	// chamadas serializadas no mesmo terminal
	existing, err := findReservationTx(ctx, tx, schema, requestID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("falha ao consultar reserva existente: %w", err)
	}

	var number int
	counterQuery := fmt.Sprintf(`
		UPDATE %s.terminals
		SET last_number = last_number + 1, updated_at = $2
		WHERE id = $1
		RETURNING last_number
	`, schema)
	if err := tx.QueryRow(ctx, counterQuery, terminalID, time.Now()).Scan(&number); err != nil {
		return nil, fmt.Errorf("falha ao avançar contador do terminal: %w", err)
	}

	res := &numbering.Reservation{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		BranchID:   branchID,
		TerminalID: terminalID,
		Series:     series,
		Number:     number,
		RequestID:  requestID,
		ReservedBy: userID,
		ReservedAt: time.Now(),
	}

	// O insert corre dentro de um savepoint: a violação da constraint única
	// de request_id (corrida com outro terminal) não invalida a transação
	sp, err := tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar savepoint: %w", err)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s.number_reservations (
			id, tenant_id, branch_id, terminal_id, series, number, request_id,
			reserved_by, reserved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, schema)
	_, err = sp.Exec(ctx, insertQuery,
		res.ID, res.TenantID, res.BranchID, res.TerminalID, res.Series, res.Number, res.RequestID,
		res.ReservedBy, res.ReservedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if rbErr := sp.Rollback(ctx); rbErr != nil {
				return nil, fmt.Errorf("falha ao desfazer savepoint: %w", rbErr)
			}
			winner, findErr := findReservationTx(ctx, tx, schema, requestID)
			if findErr != nil {
				return nil, fmt.Errorf("falha ao reler reserva vencedora: %w", findErr)
			}
			// O rollback da transação externa devolve o número não usado
			return winner, nil
		}
		return nil, fmt.Errorf("falha ao inserir reserva: %w", err)
	}
	if err := sp.Commit(ctx); err != nil {
		return nil, fmt.Errorf("falha ao confirmar savepoint: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("falha ao confirmar reserva: %w", err)
	}

	return res, nil
}

func findReservation(ctx context.Context, conn *pgxpool.Conn, schema, requestID string) (*numbering.Reservation, error) {
	return scanReservation(conn.QueryRow(ctx, reservationQuery(schema), requestID))
}

func findReservationTx(ctx context.Context, tx pgx.Tx, schema, requestID string) (*numbering.Reservation, error) {
	return scanReservation(tx.QueryRow(ctx, reservationQuery(schema), requestID))
}

func reservationQuery(schema string) string {
	return fmt.Sprintf(`
		SELECT id, tenant_id, branch_id, terminal_id, series, number, request_id,
			reserved_by, reserved_at
		FROM %s.number_reservations
		WHERE request_id = $1
	`, schema)
}

func scanReservation(row pgx.Row) (*numbering.Reservation, error) {
	var res numbering.Reservation
	err := row.Scan(
		&res.ID, &res.TenantID, &res.BranchID, &res.TerminalID, &res.Series, &res.Number, &res.RequestID,
		&res.ReservedBy, &res.ReservedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
