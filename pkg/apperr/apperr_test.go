package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCarriesKindAndCode(t *testing.T) {
	err := NotFound("terminal_not_found", "terminal X não encontrado")

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "terminal_not_found", CodeOf(err))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "terminal_not_found")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("conexão recusada")
	err := Upstream("sefaz_communication", "falha na comunicação", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindUpstream, KindOf(err))
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	inner := Conflict("range_conflict", "faixa ocupada")
	outer := fmt.Errorf("ao inutilizar faixa: %w", inner)

	assert.Equal(t, KindConflict, KindOf(outer))
	assert.Equal(t, "range_conflict", CodeOf(outer))
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("qualquer coisa")

	assert.Equal(t, Kind(""), KindOf(err))
	assert.Empty(t, CodeOf(err))
}

func TestConstructorsAssignExpectedKinds(t *testing.T) {
	cases := []struct {
		err  *Error
		kind Kind
	}{
		{Validation("c", "m"), KindValidation},
		{NotFound("c", "m"), KindNotFound},
		{PermissionDenied("c", "m"), KindPermissionDenied},
		{Conflict("c", "m"), KindConflict},
		{Configuration("c", "m"), KindConfiguration},
		{Upstream("c", "m", nil), KindUpstream},
	}
	for _, tc := range cases {
		require.Equal(t, tc.kind, tc.err.Kind)
	}
}
