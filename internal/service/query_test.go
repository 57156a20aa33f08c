package service

import (
	"context"
	"testing"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/audit"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryGetByIDAndAccessKey(t *testing.T) {
	f := newFixture(t)
	f.emitAuthorized(t, "req-1", "op-1")
	ctx := context.Background()

	doc, err := f.emissions.Emit(ctx, "req-1", "op-1", false)
	require.NoError(t, err)

	byID, err := f.queries.Get(ctx, doc.ID, "op-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, byID.ID)

	byKey, err := f.queries.Get(ctx, doc.AccessKey, "op-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, byKey.ID)
}

func TestQueryGetReturnsReportedView(t *testing.T) {
	f := newFixture(t)
	f.prepare(t, "req-1")
	f.mock.ForceTechnical = true
	ctx := context.Background()

	doc, err := f.emissions.Emit(ctx, "req-1", "op-1", false)
	require.NoError(t, err)

	view, err := f.queries.Get(ctx, doc.ID, "op-1")
	require.NoError(t, err)
	assert.Empty(t, view.AccessKey)
	assert.Empty(t, view.Protocol)
	assert.True(t, view.Contingency)
}

func TestQueryGetUnknownDocument(t *testing.T) {
	f := newFixture(t)

	_, err := f.queries.Get(context.Background(), "nao-existe", "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestQueryDeniedAccess(t *testing.T) {
	f := newFixture(t)
	f.emitAuthorized(t, "req-1", "op-1")

	doc, err := f.emissions.Emit(context.Background(), "req-1", "op-1", false)
	require.NoError(t, err)

	f.withDeniedAccess()
	_, err = f.queries.Get(context.Background(), doc.ID, "op-1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}

func TestQueryAuditTrailChronology(t *testing.T) {
	f := newFixture(t)
	doc := f.emitContingency(t, "req-1")
	ctx := context.Background()

	_, err := f.regularizations.Regularize(ctx, doc.ID, "op-1")
	require.NoError(t, err)

	trail, err := f.queries.AuditTrail(ctx, doc.ID, "op-1")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, audit.EventContingencyActivated, trail[0].EventType)
	assert.Equal(t, audit.EventContingencyRegularized, trail[1].EventType)

	// O documento terminou autorizado
	view, err := f.queries.Get(ctx, doc.ID, "op-1")
	require.NoError(t, err)
	assert.Equal(t, document.StatusAuthorized, view.Status)
}
