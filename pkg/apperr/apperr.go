package apperr

import (
	"errors"
	"fmt"
)

// Kind classifica um erro de negócio em uma das categorias estáveis da API
type Kind string

const (
	KindValidation       Kind = "VALIDATION"
	KindNotFound         Kind = "NOT_FOUND"
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	KindConflict         Kind = "CONFLICT"
	KindConfiguration    Kind = "CONFIGURATION"
	KindUpstream         Kind = "UPSTREAM"
)

// Error é um erro com categoria e código estáveis, legíveis por máquina.
// O código não muda entre versões; a mensagem é livre para humanos.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// Error implementa a interface error
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
}

// Unwrap expõe a causa original para errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// New cria um erro com categoria e código
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap cria um erro com categoria e código preservando a causa
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// Validation cria um erro de entrada inválida
func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

// NotFound cria um erro de entidade não encontrada
func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

// PermissionDenied cria um erro de permissão ou credencial
func PermissionDenied(code, message string) *Error {
	return New(KindPermissionDenied, code, message)
}

// Conflict cria um erro de violação de invariante
func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

// Configuration cria um erro de dados de configuração inconsistentes
func Configuration(code, message string) *Error {
	return New(KindConfiguration, code, message)
}

// Upstream cria um erro de falha inesperada após chamada externa
func Upstream(code, message string, err error) *Error {
	return Wrap(KindUpstream, code, message, err)
}

// KindOf retorna a categoria de um erro, ou vazio se não for um *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf retorna o código estável de um erro, ou vazio se não for um *Error
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsKind verifica se o erro pertence à categoria informada
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
