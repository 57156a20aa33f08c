package sefaz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/branch"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/document"
	"github.com/hugohenrick/pdv-fiscal/internal/domain/preemission"
)

// MockClient é a implementação de testes/homologação do Client. O
// comportamento da próxima chamada é roteirizável; por padrão tudo é
// autorizado com chave e protocolo gerados.
type MockClient struct {
	mu sync.Mutex

	// Environment é o ambiente com que o mock foi construído
	Environment branch.Environment

	// ForceTechnical faz toda chamada falhar com TechnicalError. Existe
	// exclusivamente para exercitar o caminho de contingência.
	ForceTechnical bool

	// NextStatus, NextAccessKey, NextProtocol, NextCode e NextMessage
	// roteirizam a próxima resposta quando não vazios
	NextStatus    Status
	NextAccessKey string
	NextProtocol  string
	NextCode      string
	NextMessage   string

	// Contadores de chamadas, para asserções de idempotência
	EmitCalls   int
	CancelCalls int
	VoidCalls   int
}

// NewMockClient cria um MockClient para o ambiente informado
func NewMockClient(env branch.Environment) *MockClient {
	return &MockClient{Environment: env}
}

// mockAccessKey deriva uma chave de acesso de tamanho fixo a partir da
// identidade do documento
func mockAccessKey(seed string) string {
	sum := sha256.Sum256([]byte("sefaz-mock:" + seed))
	return hex.EncodeToString(sum[:])[:document.AccessKeyLength]
}

func (m *MockClient) respond(seed string) (*Response, error) {
	if m.ForceTechnical {
		return nil, &TechnicalError{Op: "emit", Err: fmt.Errorf("falha forçada pelo mock")}
	}

	status := m.NextStatus
	if status == "" {
		status = StatusAuthorized
	}
	accessKey := m.NextAccessKey
	if accessKey == "" && status == StatusAuthorized {
		accessKey = mockAccessKey(seed)
	}
	protocol := m.NextProtocol
	if protocol == "" && status == StatusAuthorized {
		protocol = "MOCK-" + mockAccessKey(seed)[:12]
	}
	code := m.NextCode
	if code == "" {
		if status == StatusAuthorized {
			code = "100"
		} else {
			code = "301"
		}
	}
	message := m.NextMessage
	if message == "" {
		if status == StatusAuthorized {
			message = "Autorizado o uso do documento fiscal"
		} else {
			message = "Uso denegado pela SEFAZ"
		}
	}

	return &Response{
		Status:    status,
		AccessKey: accessKey,
		Protocol:  protocol,
		Code:      code,
		Message:   message,
		Raw:       fmt.Sprintf(`{"mock":true,"status":%q,"code":%q}`, status, code),
	}, nil
}

// Emit implementa Client.Emit
func (m *MockClient) Emit(ctx context.Context, pre *preemission.PreEmission) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmitCalls++
	return m.respond(pre.RequestID)
}

// Cancel implementa Client.Cancel
func (m *MockClient) Cancel(ctx context.Context, doc *document.Document, motive string) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelCalls++
	resp, err := m.respond(doc.RequestID + ":cancel")
	if err != nil {
		return nil, err
	}
	// Cancelamento mantém a chave do documento original
	resp.AccessKey = doc.AccessKey
	return resp, nil
}

// VoidRange implementa Client.VoidRange
func (m *MockClient) VoidRange(ctx context.Context, series, start, end int, motive string) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VoidCalls++
	resp, err := m.respond(fmt.Sprintf("void:%d:%d:%d", series, start, end))
	if err != nil {
		return nil, err
	}
	resp.AccessKey = ""
	return resp, nil
}
