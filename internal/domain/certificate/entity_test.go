package certificate

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"
)

// testPFX gera um arquivo PKCS12 autoassinado com a validade informada
func testPFX(t *testing.T, notAfter time.Time, password string) []byte {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Filial 001"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     notAfter,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	data, err := gopkcs12.Modern.Encode(key, cert, nil, password)
	require.NoError(t, err)
	return data
}

func TestNewCertificateValidations(t *testing.T) {
	future := time.Now().Add(90 * 24 * time.Hour)

	cert, err := NewCertificate("t-1", "b-1", "e-CNPJ Filial 001", future)
	require.NoError(t, err)
	assert.True(t, cert.IsActive)
	assert.False(t, cert.IsExpired())

	_, err = NewCertificate("", "b-1", "nome", future)
	assert.ErrorIs(t, err, ErrEmptyTenantID)

	_, err = NewCertificate("t-1", "b-1", "nome", time.Now().Add(-time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyPassed)
}

func TestStoreCertificateDataUpdatesExpiration(t *testing.T) {
	// ASN.1 guarda a validade em UTC com precisão de segundos
	notAfter := time.Now().Add(180 * 24 * time.Hour).Truncate(time.Second).UTC()
	data := testPFX(t, notAfter, "senha-do-pfx")

	cert, err := NewCertificate("t-1", "b-1", "e-CNPJ Filial 001", time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, cert.StoreCertificateData(data, "senha-do-pfx"))

	assert.True(t, cert.ExpirationDate.Equal(notAfter))
	assert.Equal(t, data, cert.CertificateData)
	assert.False(t, cert.IsExpired())
}

func TestStoreCertificateDataRejectsBadInput(t *testing.T) {
	cert, err := NewCertificate("t-1", "b-1", "e-CNPJ Filial 001", time.Now().Add(time.Hour))
	require.NoError(t, err)

	assert.ErrorIs(t, cert.StoreCertificateData(nil, "senha"), ErrEmptyData)
	assert.ErrorIs(t, cert.StoreCertificateData([]byte{0x01}, ""), ErrEmptyPassword)

	// Senha errada não corrompe o estado do certificado
	data := testPFX(t, time.Now().Add(time.Hour).Truncate(time.Second).UTC(), "senha-certa")
	err = cert.StoreCertificateData(data, "senha-errada")
	require.Error(t, err)
	assert.Empty(t, cert.CertificateData)
}

func TestIsExpired(t *testing.T) {
	cert, err := NewCertificate("t-1", "b-1", "e-CNPJ Filial 001", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, cert.IsExpired())

	cert.ExpirationDate = time.Now().Add(-time.Minute)
	assert.True(t, cert.IsExpired())
}
