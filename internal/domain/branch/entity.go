package branch

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName     = errors.New("nome não pode ser vazio")
	ErrEmptyTenantID = errors.New("ID do tenant não pode ser vazio")
	ErrEmptyUF       = errors.New("UF da filial não pode ser vazia")
)

// Status representa o estado da filial
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Environment define o ambiente da SEFAZ em que a filial emite
type Environment string

const (
	Production   Environment = "production"
	Homologation Environment = "homologation"
)

// NormalizeEnvironment converte rótulos livres de ambiente para o enum.
// Qualquer valor não reconhecido cai em homologação, nunca em produção.
func NormalizeEnvironment(label string) Environment {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "production", "producao", "produção", "prod":
		return Production
	default:
		return Homologation
	}
}

// Branch representa uma filial emissora de documentos fiscais
type Branch struct {
	ID          string      `json:"id"`
	TenantID    string      `json:"tenant_id"`
	Name        string      `json:"name"`
	Code        string      `json:"code"`
	Document    string      `json:"document"` // CNPJ da filial
	UF          string      `json:"uf"`       // unidade federativa (região da SEFAZ)
	Environment Environment `json:"environment"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewBranch cria uma nova filial
func NewBranch(tenantID, name, code, document, uf string, env Environment) (*Branch, error) {
	if tenantID == "" {
		return nil, ErrEmptyTenantID
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(uf) == "" {
		return nil, ErrEmptyUF
	}

	now := time.Now()
	return &Branch{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        name,
		Code:        code,
		Document:    document,
		UF:          strings.ToUpper(strings.TrimSpace(uf)),
		Environment: env,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsActive verifica se a filial está ativa
func (b *Branch) IsActive() bool {
	return b.Status == StatusActive
}
