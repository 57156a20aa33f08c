package auth

import (
	"context"

	"github.com/hugohenrick/pdv-fiscal/pkg/branch"
)

// BranchAccessChecker responde se um operador tem acesso a uma filial.
// A decisão em si (papéis, vínculos de lotação) pertence ao módulo de
// usuários; o núcleo fiscal só consome o resultado booleano.
type BranchAccessChecker interface {
	HasBranchAccess(ctx context.Context, userID, branchID string) (bool, error)
}

// ClaimsAccessChecker concede acesso quando a filial requisitada é a mesma
// presente nas claims do token do operador
type ClaimsAccessChecker struct{}

// NewClaimsAccessChecker cria uma nova instância de ClaimsAccessChecker
func NewClaimsAccessChecker() *ClaimsAccessChecker {
	return &ClaimsAccessChecker{}
}

// HasBranchAccess implementa BranchAccessChecker
func (c *ClaimsAccessChecker) HasBranchAccess(ctx context.Context, userID, branchID string) (bool, error) {
	return branch.GetBranchID(ctx) == branchID, nil
}
