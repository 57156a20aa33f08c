package pkcs12

import (
	"crypto/x509"
	"encoding/pem"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

// ToPEM converte um certificado PKCS12 para blocos PEM
func ToPEM(pfxData []byte, password string) ([]*pem.Block, error) {
	// Decodificar o arquivo PKCS12
	privateKey, certificate, caCerts, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return nil, err
	}

	var blocks []*pem.Block

	// Adicionar o certificado principal
	if certificate != nil {
		blocks = append(blocks, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: certificate.Raw,
		})
	}

	// Adicionar certificados da cadeia (CA)
	for _, cert := range caCerts {
		blocks = append(blocks, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: cert.Raw,
		})
	}

	// Adicionar chave privada se disponível
	if privateKey != nil {
		pkData, err := x509.MarshalPKCS8PrivateKey(privateKey)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, &pem.Block{
			Type:  "PRIVATE KEY",
			Bytes: pkData,
		})
	}

	return blocks, nil
}

// ExpirationDate extrai a data de validade do certificado principal de um
// arquivo PKCS12. Usada para validar a credencial de assinatura da filial
// antes de qualquer emissão.
func ExpirationDate(pfxData []byte, password string) (time.Time, error) {
	_, certificate, _, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return time.Time{}, err
	}
	return certificate.NotAfter, nil
}
