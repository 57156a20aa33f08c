package numbering

import (
	"context"
	"errors"
)

// ErrNotFound ocorre quando não existe reserva para o request ID
var ErrNotFound = errors.New("reserva não encontrada")

// Repository define a interface para operações de reserva de numeração
type Repository interface {
	// FindByRequestID busca uma reserva pela chave de idempotência
	FindByRequestID(ctx context.Context, requestID string) (*Reservation, error)

	// Allocate reserva o próximo número do terminal para o request ID.
	// A implementação deve garantir, sob concorrência arbitrária:
	//  (a) no máximo uma reserva por request ID;
	//  (b) o contador do terminal avança exatamente um por request ID
	//      distinto, sob lock exclusivo da linha do terminal;
	//  (c) N requests distintos produzem N números contíguos, sem lacunas
	//      e sem duplicatas.
	// Se outra chamada vencer a corrida pelo mesmo request ID, a reserva
	// existente é retornada sem erro.
	Allocate(ctx context.Context, terminalID string, series int, requestID, userID string) (*Reservation, error)
}
