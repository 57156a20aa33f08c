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

// emitContingency leva o request ID até contingência pendente e devolve o
// documento
func (f *fixture) emitContingency(t *testing.T, requestID string) *document.Document {
	t.Helper()
	f.prepare(t, requestID)

	f.mock.ForceTechnical = true
	doc, err := f.emissions.Emit(context.Background(), requestID, "op-1", false)
	require.NoError(t, err)
	require.Equal(t, document.StatusContingencyPending, doc.Status)
	f.mock.ForceTechnical = false
	return doc
}

func TestRegularizeAuthorizesPendingDocument(t *testing.T) {
	f := newFixture(t)
	doc := f.emitContingency(t, "req-1")
	placeholder := doc.AccessKey

	regularized, err := f.regularizations.Regularize(context.Background(), doc.ID, "op-1")
	require.NoError(t, err)

	assert.Equal(t, document.StatusAuthorized, regularized.Status)
	assert.False(t, regularized.Contingency)
	assert.NotNil(t, regularized.RegularizedAt)
	assert.NotEmpty(t, regularized.Protocol)

	// A chave provisória foi substituída pela definitiva
	assert.Len(t, regularized.AccessKey, document.AccessKeyLength)
	assert.NotEqual(t, placeholder, regularized.AccessKey)

	require.Len(t, f.store.AuditsByEvent(audit.EventContingencyRegularized), 1)
}

func TestRegularizeRejectedInContingency(t *testing.T) {
	f := newFixture(t)
	doc := f.emitContingency(t, "req-1")
	f.mock.NextStatus = sefaz.StatusRejected

	regularized, err := f.regularizations.Regularize(context.Background(), doc.ID, "op-1")
	require.NoError(t, err)

	assert.Equal(t, document.StatusRejectedInContingency, regularized.Status)
	assert.False(t, regularized.Contingency)

	require.Len(t, f.store.AuditsByEvent(audit.EventContingencyRejected), 1)
}

func TestRegularizeTechnicalFailureKeepsStateUntouched(t *testing.T) {
	f := newFixture(t)
	doc := f.emitContingency(t, "req-1")
	f.mock.ForceTechnical = true

	_, err := f.regularizations.Regularize(context.Background(), doc.ID, "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, "sefaz_unreachable", apperr.CodeOf(err))

	// O documento permanece em contingência pendente, sem nova auditoria
	stored, err := f.queries.Get(context.Background(), doc.ID, "op-1")
	require.NoError(t, err)
	assert.Equal(t, document.StatusContingencyPending, stored.Status)
	assert.True(t, stored.Contingency)
	require.Len(t, f.store.Audits(), 1)
}

func TestRegularizeNonPendingDocumentIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.emitAuthorized(t, "req-1", "op-1")
	ctx := context.Background()

	doc, err := f.emissions.Emit(ctx, "req-1", "op-1", false)
	require.NoError(t, err)
	emitCalls := f.mock.EmitCalls

	same, err := f.regularizations.Regularize(ctx, doc.ID, "op-1")
	require.NoError(t, err)
	assert.Equal(t, document.StatusAuthorized, same.Status)
	assert.Equal(t, doc.AccessKey, same.AccessKey)

	// Nenhuma nova chamada à SEFAZ
	assert.Equal(t, emitCalls, f.mock.EmitCalls)
}

func TestRegularizeTwiceOnlyCallsClientOnce(t *testing.T) {
	f := newFixture(t)
	doc := f.emitContingency(t, "req-1")
	ctx := context.Background()

	_, err := f.regularizations.Regularize(ctx, doc.ID, "op-1")
	require.NoError(t, err)
	calls := f.mock.EmitCalls

	again, err := f.regularizations.Regularize(ctx, doc.ID, "op-1")
	require.NoError(t, err)
	assert.Equal(t, document.StatusAuthorized, again.Status)
	assert.Equal(t, calls, f.mock.EmitCalls)
}

func TestRegularizeByAccessKey(t *testing.T) {
	f := newFixture(t)
	doc := f.emitContingency(t, "req-1")

	// A chave provisória também serve como referência de consulta
	regularized, err := f.regularizations.Regularize(context.Background(), doc.AccessKey, "op-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, regularized.ID)
	assert.Equal(t, document.StatusAuthorized, regularized.Status)
}

func TestRegularizeUnknownDocument(t *testing.T) {
	f := newFixture(t)

	_, err := f.regularizations.Regularize(context.Background(), "nao-existe", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "document_not_found", apperr.CodeOf(err))
}
