package certificate

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hugohenrick/pdv-fiscal/pkg/pkcs12"
)

var (
	ErrEmptyTenantID = errors.New("tenant ID é obrigatório")
	ErrEmptyBranchID = errors.New("branch ID é obrigatório")
	ErrEmptyName     = errors.New("nome do certificado é obrigatório")
	ErrAlreadyPassed = errors.New("data de validade do certificado já passou")
	ErrEmptyData     = errors.New("dados do certificado não podem estar vazios")
	ErrEmptyPassword = errors.New("senha do certificado é obrigatória")
)

// Certificate é o certificado digital de assinatura vinculado a uma filial.
// A validade dele condiciona toda reserva de número e emissão.
type Certificate struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	BranchID        string    `json:"branch_id"`
	Name            string    `json:"name"`
	CertificateData []byte    `json:"-"` // Não expor ao serializar para JSON
	Password        string    `json:"-"` // Não expor ao serializar para JSON
	ExpirationDate  time.Time `json:"expiration_date"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewCertificate cria um novo certificado digital
func NewCertificate(tenantID, branchID, name string, expirationDate time.Time) (*Certificate, error) {
	if tenantID == "" {
		return nil, ErrEmptyTenantID
	}
	if branchID == "" {
		return nil, ErrEmptyBranchID
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if expirationDate.Before(time.Now()) {
		return nil, ErrAlreadyPassed
	}

	now := time.Now()
	return &Certificate{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		BranchID:       branchID,
		Name:           name,
		ExpirationDate: expirationDate,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// StoreCertificateData armazena os dados binários (PKCS12) do certificado e
// atualiza a data de validade a partir do próprio arquivo
func (c *Certificate) StoreCertificateData(data []byte, password string) error {
	if len(data) == 0 {
		return ErrEmptyData
	}
	if password == "" {
		return ErrEmptyPassword
	}

	expiration, err := pkcs12.ExpirationDate(data, password)
	if err != nil {
		return fmt.Errorf("falha ao decodificar certificado PKCS12: %w", err)
	}

	c.CertificateData = data
	c.Password = password
	c.ExpirationDate = expiration
	c.UpdatedAt = time.Now()
	return nil
}

// IsExpired verifica se o certificado está expirado
func (c *Certificate) IsExpired() bool {
	return time.Now().After(c.ExpirationDate)
}
