package sefaz

import (
	"strings"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/branch"
	"github.com/hugohenrick/pdv-fiscal/pkg/logger"
)

// ClientBuilder constrói um Client para uma UF e ambiente específicos
type ClientBuilder func(uf string, env branch.Environment) Client

// ClientFactory seleciona a implementação de Client pela UF e ambiente da
// filial. É a única costura para registrar integrações reais por região.
type ClientFactory struct {
	builders map[string]ClientBuilder
	logger   logger.Logger
}

// NewClientFactory cria uma factory sem integrações regionais registradas;
// toda filial cai na implementação padrão (mock) até que uma UF seja
// registrada via Register.
func NewClientFactory(log logger.Logger) *ClientFactory {
	return &ClientFactory{
		builders: make(map[string]ClientBuilder),
		logger:   log,
	}
}

// Register registra a implementação de uma UF
func (f *ClientFactory) Register(uf string, builder ClientBuilder) {
	f.builders[strings.ToUpper(strings.TrimSpace(uf))] = builder
}

// ForBranch retorna o Client adequado para a filial. UFs sem implementação
// registrada caem na implementação padrão em vez de falhar, para manter o
// comportamento previsível mesmo com dados de configuração ruins.
// forceTechnicalFailure existe apenas para exercitar a contingência.
func (f *ClientFactory) ForBranch(b *branch.Branch, forceTechnicalFailure bool) Client {
	uf := strings.ToUpper(strings.TrimSpace(b.UF))
	env := branch.NormalizeEnvironment(string(b.Environment))

	if forceTechnicalFailure {
		mock := NewMockClient(env)
		mock.ForceTechnical = true
		return mock
	}

	if builder, ok := f.builders[uf]; ok {
		return builder(uf, env)
	}

	f.logger.Debug("nenhuma integração registrada para a UF, usando implementação padrão", "uf", uf, "environment", env)
	return NewMockClient(env)
}
