package service

import (
	"context"
	"testing"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
	"github.com/hugohenrick/pdv-fiscal/internal/sefaz"
	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) prepare(t *testing.T, requestID string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.reservations.Reserve(ctx, f.terminal.ID, 1, requestID, "op-1")
	require.NoError(t, err)
	_, err = f.preEmissions.Create(ctx, requestID, []byte(salePayload), "op-1")
	require.NoError(t, err)
}

func TestEmitAuthorized(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")

	doc, err := f.emissions.Emit(context.Background(), "req-1", "op-1", false)
	require.NoError(t, err)

	assert.Equal(t, document.StatusAuthorized, doc.Status)
	assert.Len(t, doc.AccessKey, document.AccessKeyLength)
	assert.NotEmpty(t, doc.Protocol)
	assert.False(t, doc.Contingency)
	assert.Equal(t, 1, doc.Number)

	audits := f.store.AuditsByEvent(audit.EventAuthorized)
	require.Len(t, audits, 1)
	assert.Equal(t, "req-1", audits[0].RequestID)
	assert.Equal(t, doc.ID, *audits[0].DocumentID)
	assert.Equal(t, "100", audits[0].ReturnCode)
}

func TestEmitRejected(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")
	f.mock.NextStatus = sefaz.StatusRejected

	doc, err := f.emissions.Emit(context.Background(), "req-1", "op-1", false)
	require.NoError(t, err)

	assert.Equal(t, document.StatusRejected, doc.Status)
	assert.Empty(t, doc.AccessKey)

	require.Len(t, f.store.AuditsByEvent(audit.EventRejected), 1)
	assert.Empty(t, f.store.AuditsByEvent(audit.EventAuthorized))
}

func TestEmitTechnicalFailureActivatesContingency(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")
	f.mock.ForceTechnical = true

	// Falha técnica não é erro: a emissão retorna o documento em
	// contingência pendente
	doc, err := f.emissions.Emit(context.Background(), "req-1", "op-1", false)
	require.NoError(t, err)

	assert.Equal(t, document.StatusContingencyPending, doc.Status)
	assert.True(t, doc.Contingency)
	assert.NotNil(t, doc.ContingencyAt)
	assert.NotEmpty(t, doc.ContingencyMotive)
	assert.Empty(t, doc.Protocol)

	// Chave provisória determinística, com o tamanho de uma chave real
	assert.Len(t, doc.AccessKey, document.AccessKeyLength)
	assert.Equal(t, document.PlaceholderAccessKey("req-1"), doc.AccessKey)

	audits := f.store.AuditsByEvent(audit.EventContingencyActivated)
	require.Len(t, audits, 1)
	assert.Equal(t, "req-1", audits[0].RequestID)
}

func TestEmitForceContingencyFlag(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")

	doc, err := f.emissions.Emit(context.Background(), "req-1", "op-1", true)
	require.NoError(t, err)
	assert.Equal(t, document.StatusContingencyPending, doc.Status)

	// O mock normal nunca chegou a ser chamado
	assert.Equal(t, 0, f.mock.EmitCalls)
}

func TestEmitIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")
	ctx := context.Background()

	first, err := f.emissions.Emit(ctx, "req-1", "op-1", false)
	require.NoError(t, err)

	second, err := f.emissions.Emit(ctx, "req-1", "op-1", false)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.AccessKey, second.AccessKey)

	// A SEFAZ foi chamada exatamente uma vez e só há um evento de auditoria
	assert.Equal(t, 1, f.mock.EmitCalls)
	require.Len(t, f.store.Audits(), 1)
}

func TestEmitRequiresPreEmission(t *testing.T) {
	f := newFixture(t)

	_, err := f.emissions.Emit(context.Background(), "req-desconhecido", "op-1", false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "preemission_not_found", apperr.CodeOf(err))
}

func TestEmitRejectsExpiredCertificate(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")
	f.expireCertificate(t)

	_, err := f.emissions.Emit(context.Background(), "req-1", "op-1", false)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.Equal(t, 0, f.mock.EmitCalls)
}

func TestReportedViewHidesAccessKeyDuringContingency(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")
	f.mock.ForceTechnical = true

	doc, err := f.emissions.Emit(context.Background(), "req-1", "op-1", false)
	require.NoError(t, err)

	view := doc.Reported()
	assert.Empty(t, view.AccessKey)
	assert.Empty(t, view.Protocol)
	assert.Empty(t, view.SignedXML)
	assert.Equal(t, document.StatusContingencyPending, view.Status)

	// O documento persistido mantém a chave provisória
	assert.NotEmpty(t, doc.AccessKey)
}

func TestCancelAuthorizedDocument(t *testing.T) {
	f := newFixture(t)
	f.emitAuthorized(t, "req-1", "op-1")
	ctx := context.Background()

	doc, err := f.emissions.Emit(ctx, "req-1", "op-1", false)
	require.NoError(t, err)

	cancelled, err := f.emissions.Cancel(ctx, doc.ID, "venda registrada em duplicidade no caixa", "op-1")
	require.NoError(t, err)
	assert.Equal(t, document.StatusCancelled, cancelled.Status)

	require.Len(t, f.store.AuditsByEvent(audit.EventCancelled), 1)
}

func TestCancelRequiresLongMotive(t *testing.T) {
	f := newFixture(t)
	f.emitAuthorized(t, "req-1", "op-1")

	_, err := f.emissions.Cancel(context.Background(), "qualquer", "curta", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "invalid_motive", apperr.CodeOf(err))
}

func TestCancelOnlyAuthorizedDocuments(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")
	f.mock.NextStatus = sefaz.StatusRejected

	doc, err := f.emissions.Emit(context.Background(), "req-1", "op-1", false)
	require.NoError(t, err)

	_, err = f.emissions.Cancel(context.Background(), doc.ID, "venda registrada em duplicidade no caixa", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "cancel_not_allowed", apperr.CodeOf(err))
}

func TestCancelByAccessKey(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")
	ctx := context.Background()

	doc, err := f.emissions.Emit(ctx, "req-1", "op-1", false)
	require.NoError(t, err)

	cancelled, err := f.emissions.Cancel(ctx, doc.AccessKey, "venda registrada em duplicidade no caixa", "op-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, cancelled.ID)
	assert.Equal(t, document.StatusCancelled, cancelled.Status)
}
