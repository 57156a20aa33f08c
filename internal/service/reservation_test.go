package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/numbering"
	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveAllocatesSequentialNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		res, err := f.reservations.Reserve(ctx, f.terminal.ID, 1, fmt.Sprintf("req-%d", i), "op-1")
		require.NoError(t, err)
		assert.Equal(t, i, res.Number)
		assert.Equal(t, f.branch.ID, res.BranchID)
	}

	term, ok := f.store.TerminalByID(f.terminal.ID)
	require.True(t, ok)
	assert.Equal(t, 5, term.LastNumber)
}

func TestReserveIsIdempotentPerRequestID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.reservations.Reserve(ctx, f.terminal.ID, 1, "req-1", "op-1")
	require.NoError(t, err)

	second, err := f.reservations.Reserve(ctx, f.terminal.ID, 1, "req-1", "op-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)

	term, ok := f.store.TerminalByID(f.terminal.ID)
	require.True(t, ok)
	assert.Equal(t, 1, term.LastNumber)
}

func TestReserveConcurrentDistinctRequestsAreGapFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := f.reservations.Reserve(ctx, f.terminal.ID, 1, fmt.Sprintf("req-%d", i), "op-1")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	reservations := f.store.Reservations()
	require.Len(t, reservations, n)

	// Números contíguos de 1 a n, sem lacunas nem duplicatas
	for i, res := range reservations {
		assert.Equal(t, i+1, res.Number)
	}

	term, ok := f.store.TerminalByID(f.terminal.ID)
	require.True(t, ok)
	assert.Equal(t, n, term.LastNumber)
}

func TestReserveConcurrentSameRequestIDAllocatesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 20

	results := make([]*numbering.Reservation, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			res, err := f.reservations.Reserve(ctx, f.terminal.ID, 1, "req-unique", "op-1")
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	// Todas as chamadas veem a mesma reserva e o contador avança uma vez
	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, 1, res.Number)
		assert.Equal(t, results[0].ID, res.ID)
	}

	require.Len(t, f.store.Reservations(), 1)
	term, ok := f.store.TerminalByID(f.terminal.ID)
	require.True(t, ok)
	assert.Equal(t, 1, term.LastNumber)
}

func TestReserveRejectsUnknownTerminal(t *testing.T) {
	f := newFixture(t)

	_, err := f.reservations.Reserve(context.Background(), "nao-existe", 1, "req-1", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "terminal_not_found", apperr.CodeOf(err))
}

func TestReserveRejectsSeriesMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.reservations.Reserve(context.Background(), f.terminal.ID, 9, "req-1", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "series_mismatch", apperr.CodeOf(err))
}

func TestReserveRejectsWithoutBranchAccess(t *testing.T) {
	f := newFixture(t).withDeniedAccess()

	_, err := f.reservations.Reserve(context.Background(), f.terminal.ID, 1, "req-1", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}

func TestReserveRejectsExpiredCertificate(t *testing.T) {
	f := newFixture(t)
	f.expireCertificate(t)

	_, err := f.reservations.Reserve(context.Background(), f.terminal.ID, 1, "req-1", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.Equal(t, "certificate_expired", apperr.CodeOf(err))
}

func TestReserveIdempotencySkipsPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.reservations.Reserve(ctx, f.terminal.ID, 1, "req-1", "op-1")
	require.NoError(t, err)

	// Mesmo com o certificado vencido depois, a releitura idempotente
	// devolve a reserva original sem reavaliar pré-condições
	f.expireCertificate(t)
	again, err := f.reservations.Reserve(ctx, f.terminal.ID, 1, "req-1", "op-1")
	require.NoError(t, err)
	assert.Equal(t, res.ID, again.ID)
}

func TestReserveRequiresRequestID(t *testing.T) {
	f := newFixture(t)

	_, err := f.reservations.Reserve(context.Background(), f.terminal.ID, 1, "", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
