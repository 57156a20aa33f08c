package dto

import (
	"net/http"

	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
)

// ErrorResponse representa a estrutura de resposta para erros
type ErrorResponse struct {
	Code    int    `json:"code"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse representa a estrutura de resposta para operações bem-sucedidas
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewErrorResponse cria uma nova resposta de erro
func NewErrorResponse(code int, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewSuccessResponse cria uma nova resposta de sucesso
func NewSuccessResponse(message string, data interface{}) SuccessResponse {
	return SuccessResponse{
		Message: message,
		Data:    data,
	}
}

// FromAppError converte um erro da camada de serviço em status HTTP e corpo
// de resposta. Erros sem taxonomia caem em 500.
func FromAppError(err error) (int, ErrorResponse) {
	var status int
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindPermissionDenied:
		status = http.StatusForbidden
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindConfiguration:
		status = http.StatusUnprocessableEntity
	case apperr.KindUpstream:
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	return status, ErrorResponse{
		Code:    status,
		Error:   apperr.CodeOf(err),
		Message: err.Error(),
	}
}
