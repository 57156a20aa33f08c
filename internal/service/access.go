package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hugohenrick/pdv-fiscal/internal/domain/certificate"
	"github.com/hugohenrick/pdv-fiscal/pkg/apperr"
)

// AccessChecker responde se um operador tem acesso a uma filial. A decisão
// pertence ao módulo de usuários; aqui só se consome o booleano.
type AccessChecker interface {
	HasBranchAccess(ctx context.Context, userID, branchID string) (bool, error)
}

// ensureBranchAccess falha com PERMISSION_DENIED quando o operador não tem
// acesso à filial
func ensureBranchAccess(ctx context.Context, checker AccessChecker, userID, branchID string) error {
	ok, err := checker.HasBranchAccess(ctx, userID, branchID)
	if err != nil {
		return fmt.Errorf("falha ao verificar acesso à filial: %w", err)
	}
	if !ok {
		return apperr.PermissionDenied("permission_denied",
			fmt.Sprintf("operador %s não tem acesso à filial %s", userID, branchID))
	}
	return nil
}

// ensureValidCertificate falha com PERMISSION_DENIED quando a filial não
// possui certificado de assinatura ativo e dentro da validade
func ensureValidCertificate(ctx context.Context, certs certificate.Repository, branchID string) error {
	cert, err := certs.FindActiveByBranch(ctx, branchID)
	if err != nil {
		if errors.Is(err, certificate.ErrNotFound) {
			return apperr.PermissionDenied("certificate_missing",
				fmt.Sprintf("filial %s não possui certificado de assinatura ativo", branchID))
		}
		return fmt.Errorf("falha ao buscar certificado da filial: %w", err)
	}
	if cert.IsExpired() {
		return apperr.PermissionDenied("certificate_expired",
			fmt.Sprintf("certificado %s da filial %s está expirado", cert.Name, branchID))
	}
	return nil
}
