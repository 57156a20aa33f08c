package voidrange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRange(t *testing.T) {
	motive := "falha de impressão inutilizou os formulários"

	assert.NoError(t, ValidateRange(1, 1, motive))
	assert.NoError(t, ValidateRange(10, 20, motive))

	assert.ErrorIs(t, ValidateRange(0, 5, motive), ErrInvalidRange)
	assert.ErrorIs(t, ValidateRange(5, 0, motive), ErrInvalidRange)
	assert.ErrorIs(t, ValidateRange(-1, 5, motive), ErrInvalidRange)
	assert.ErrorIs(t, ValidateRange(20, 10, motive), ErrInvalidRange)

	assert.ErrorIs(t, ValidateRange(10, 20, "curta"), ErrMotiveTooShort)
	// Espaços não contam para o tamanho mínimo
	assert.ErrorIs(t, ValidateRange(10, 20, "      abc      "), ErrMotiveTooShort)
}

func TestNewVoidRange(t *testing.T) {
	vr, err := NewVoidRange("t-1", "b-1", 1, 10, 20, "falha de impressão inutilizou os formulários", "void-1", "PROT-1", "{}", "op-1")
	require.NoError(t, err)

	assert.NotEmpty(t, vr.ID)
	assert.Equal(t, StatusVoided, vr.Status)
	assert.Equal(t, 10, vr.StartNumber)
	assert.Equal(t, 20, vr.EndNumber)
	assert.Equal(t, "PROT-1", vr.Protocol)

	_, err = NewVoidRange("t-1", "b-1", 1, 10, 20, "falha de impressão inutilizou os formulários", "", "PROT-1", "{}", "op-1")
	assert.ErrorIs(t, err, ErrEmptyRequestID)
}
