package document

import (
	"testing"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/branch"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/numbering"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/preemission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPreEmission(t *testing.T) (*preemission.PreEmission, *branch.Branch) {
	t.Helper()
	br, err := branch.NewBranch("t-1", "Filial", "001", "12345678000199", "SP", branch.Homologation)
	require.NoError(t, err)

	res, err := numbering.NewReservation(br.TenantID, br.ID, "term-1", 1, "req-1", "op-1")
	require.NoError(t, err)
	res.Number = 42

	pre, err := preemission.NewPreEmission(res, []byte(`{"total":"9.98"}`), "op-1")
	require.NoError(t, err)
	return pre, br
}

func TestPlaceholderAccessKey(t *testing.T) {
	key := PlaceholderAccessKey("req-1")

	assert.Len(t, key, AccessKeyLength)
	// Determinística por request ID e distinta entre requests
	assert.Equal(t, key, PlaceholderAccessKey("req-1"))
	assert.NotEqual(t, key, PlaceholderAccessKey("req-2"))
}

func TestNewContingencyNeverHasEmptyAccessKey(t *testing.T) {
	pre, br := testPreEmission(t)

	doc, err := NewContingency(pre, br, "timeout na SEFAZ")
	require.NoError(t, err)

	assert.Equal(t, StatusContingencyPending, doc.Status)
	assert.True(t, doc.Contingency)
	assert.Len(t, doc.AccessKey, AccessKeyLength)
	assert.Empty(t, doc.Protocol)
	assert.NotNil(t, doc.ContingencyAt)
	assert.Equal(t, 42, doc.Number)
}

func TestMarkRegularizedTransition(t *testing.T) {
	pre, br := testPreEmission(t)
	doc, err := NewContingency(pre, br, "timeout")
	require.NoError(t, err)

	err = doc.MarkRegularized("chave-definitiva", "PROT-1", "<xml/>", "{}", "Autorizado")
	require.NoError(t, err)

	assert.Equal(t, StatusAuthorized, doc.Status)
	assert.False(t, doc.Contingency)
	assert.NotNil(t, doc.RegularizedAt)
	assert.Equal(t, "chave-definitiva", doc.AccessKey)

	// Estados terminais não aceitam nova regularização
	assert.ErrorIs(t, doc.MarkRegularized("outra", "p", "", "", ""), ErrNotContingency)
	assert.ErrorIs(t, doc.MarkRejectedInContingency("", ""), ErrNotContingency)
}

func TestMarkCancelledOnlyFromAuthorized(t *testing.T) {
	pre, br := testPreEmission(t)

	doc, err := NewFromResponse(pre, br, StatusAuthorized, "chave", "PROT-1", "<xml/>", "{}", "Autorizado")
	require.NoError(t, err)
	require.NoError(t, doc.MarkCancelled("PROT-2", "{}", "Cancelado"))
	assert.Equal(t, StatusCancelled, doc.Status)

	rejected, err := NewFromResponse(pre, br, StatusRejected, "", "", "", "{}", "Denegado")
	require.NoError(t, err)
	assert.ErrorIs(t, rejected.MarkCancelled("p", "", ""), ErrNotAuthorized)
}

func TestReportedHidesFieldsOnlyDuringContingency(t *testing.T) {
	pre, br := testPreEmission(t)
	doc, err := NewContingency(pre, br, "timeout")
	require.NoError(t, err)

	view := doc.Reported()
	assert.Empty(t, view.AccessKey)
	assert.Empty(t, view.Protocol)
	assert.Empty(t, view.SignedXML)

	require.NoError(t, doc.MarkRegularized("chave-definitiva", "PROT-1", "<xml/>", "{}", "Autorizado"))
	view = doc.Reported()
	assert.Equal(t, "chave-definitiva", view.AccessKey)
	assert.Equal(t, "PROT-1", view.Protocol)
}
