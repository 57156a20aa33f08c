package service

import (
	"context"
	"testing"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/voidrange"
	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const voidMotive = "falha de impressão inutilizou os formulários"

func TestVoidRangeHappyPath(t *testing.T) {
	f := newFixture(t)

	vr, err := f.voidRanges.Void(context.Background(), f.branch.ID, 1, 10, 20, voidMotive, "void-1", "op-1")
	require.NoError(t, err)

	assert.Equal(t, voidrange.StatusVoided, vr.Status)
	assert.Equal(t, 10, vr.StartNumber)
	assert.Equal(t, 20, vr.EndNumber)
	assert.NotEmpty(t, vr.Protocol)
	assert.Equal(t, 1, f.mock.VoidCalls)

	audits := f.store.AuditsByEvent(audit.EventRangeVoided)
	require.Len(t, audits, 1)
	assert.Nil(t, audits[0].DocumentID)
	assert.Equal(t, f.terminal.ID, audits[0].TerminalID)
	assert.Equal(t, "void-1", audits[0].RequestID)
}

func TestVoidRangeIdempotentByRequestID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.voidRanges.Void(ctx, f.branch.ID, 1, 10, 20, voidMotive, "void-1", "op-1")
	require.NoError(t, err)

	second, err := f.voidRanges.Void(ctx, f.branch.ID, 1, 10, 20, voidMotive, "void-1", "op-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.mock.VoidCalls)
	require.Len(t, f.store.AuditsByEvent(audit.EventRangeVoided), 1)
}

func TestVoidRangeIdempotentByIdenticalRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.voidRanges.Void(ctx, f.branch.ID, 1, 10, 20, voidMotive, "void-1", "op-1")
	require.NoError(t, err)

	// Reenvio da mesma faixa com outro request ID devolve o registro
	// original sem nova chamada à SEFAZ
	second, err := f.voidRanges.Void(ctx, f.branch.ID, 1, 10, 20, voidMotive, "void-2", "op-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.mock.VoidCalls)
}

func TestVoidRangeConflictsWithIssuedDocument(t *testing.T) {
	f := newFixture(t)
	f.emitAuthorized(t, "req-1", "op-1") // ocupa o número 1 da série 1

	_, err := f.voidRanges.Void(context.Background(), f.branch.ID, 1, 1, 5, voidMotive, "void-1", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "range_conflict", apperr.CodeOf(err))
	assert.Equal(t, 0, f.mock.VoidCalls)
}

func TestVoidRangeIgnoresRejectedDocuments(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")
	f.mock.NextStatus = "rejected"

	_, err := f.emissions.Emit(context.Background(), "req-1", "op-1", false)
	require.NoError(t, err)
	f.mock.NextStatus = ""

	// Número 1 pertence a documento rejeitado; a faixa pode ser inutilizada
	vr, err := f.voidRanges.Void(context.Background(), f.branch.ID, 1, 1, 5, voidMotive, "void-1", "op-1")
	require.NoError(t, err)
	assert.Equal(t, voidrange.StatusVoided, vr.Status)
}

func TestVoidRangeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.voidRanges.Void(ctx, f.branch.ID, 1, 20, 10, voidMotive, "void-1", "op-1")
	require.Error(t, err)
	assert.Equal(t, "invalid_range", apperr.CodeOf(err))

	_, err = f.voidRanges.Void(ctx, f.branch.ID, 1, 0, 5, voidMotive, "void-2", "op-1")
	require.Error(t, err)
	assert.Equal(t, "invalid_range", apperr.CodeOf(err))

	_, err = f.voidRanges.Void(ctx, f.branch.ID, 1, 10, 20, "curta demais", "void-3", "op-1")
	require.Error(t, err)
	assert.Equal(t, "invalid_motive", apperr.CodeOf(err))

	assert.Equal(t, 0, f.mock.VoidCalls)
}

func TestVoidRangeRequiresBranchTerminal(t *testing.T) {
	f := newFixture(t)

	// Filial sem terminais não tem a quem atribuir a auditoria
	br := *f.branch
	br.ID = "11111111-2222-4333-8444-555555555555"
	f.store.AddBranch(&br)

	_, err := f.voidRanges.Void(context.Background(), br.ID, 1, 10, 20, voidMotive, "void-1", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
	assert.Equal(t, "branch_without_terminal", apperr.CodeOf(err))
}

func TestVoidRangeUnknownBranch(t *testing.T) {
	f := newFixture(t)

	_, err := f.voidRanges.Void(context.Background(), "nao-existe", 1, 10, 20, voidMotive, "void-1", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "branch_not_found", apperr.CodeOf(err))
}

func TestVoidRangeDeniedAccess(t *testing.T) {
	f := newFixture(t).withDeniedAccess()

	_, err := f.voidRanges.Void(context.Background(), f.branch.ID, 1, 10, 20, voidMotive, "void-1", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}
