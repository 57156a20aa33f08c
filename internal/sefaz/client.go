package sefaz

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/preemission"
)

// Status é o desfecho de negócio retornado pela SEFAZ. Rejeição é um
// desfecho normal, não um erro.
type Status string

const (
	StatusAuthorized Status = "authorized"
	StatusRejected   Status = "rejected"
)

// Response é a resposta estruturada de qualquer operação contra a SEFAZ
type Response struct {
	Status    Status `json:"status"`
	AccessKey string `json:"access_key,omitempty"`
	Protocol  string `json:"protocol,omitempty"`
	SignedXML string `json:"signed_xml,omitempty"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
	Raw       string `json:"raw,omitempty"`
}

// TechnicalError sinaliza falha técnica de comunicação (timeout, rede,
// indisponibilidade). É o único tipo de erro que ativa a contingência;
// jamais representa rejeição de negócio.
type TechnicalError struct {
	Op  string
	Err error
}

// Error implementa a interface error
func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("falha técnica na comunicação com a SEFAZ (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("falha técnica na comunicação com a SEFAZ (%s)", e.Op)
}

// Unwrap expõe a causa original
func (e *TechnicalError) Unwrap() error {
	return e.Err
}

// IsTechnical verifica se o erro é uma falha técnica de comunicação
func IsTechnical(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// Client é a interface de capacidade sobre a autoridade fiscal. As
// implementações concretas (mock, por UF) são selecionadas pela factory.
type Client interface {
	// Emit envia uma pré-emissão para autorização
	Emit(ctx context.Context, pre *preemission.PreEmission) (*Response, error)

	// Cancel cancela um documento autorizado
	Cancel(ctx context.Context, doc *document.Document, motive string) (*Response, error)

	// VoidRange inutiliza uma faixa de numeração não emitida
	VoidRange(ctx context.Context, series, start, end int, motive string) (*Response, error)
}
