package tenant

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validator define a interface para validação de tenant
type Validator interface {
	ValidateTenant(ctx context.Context, tenantID string) (bool, error)
}

// Middleware cria um middleware que exige o cabeçalho tenant-id e o valida
func Middleware(validator Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Obter tenant ID do cabeçalho
		tenantID := c.GetHeader("tenant-id")
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    http.StatusBadRequest,
				"message": "Tenant ID não fornecido",
				"details": "O cabeçalho 'tenant-id' é obrigatório",
			})
			return
		}

		// Validar o tenant ID
		valid, err := validator.ValidateTenant(c.Request.Context(), tenantID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "Erro ao validar tenant",
				"details": err.Error(),
			})
			return
		}
		if !valid {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    http.StatusForbidden,
				"message": "Tenant inválido",
				"details": "O tenant informado não existe ou está inativo",
			})
			return
		}

		// Armazenar o tenant ID no contexto
		c.Set("tenant_id", tenantID)
		c.Request = c.Request.WithContext(SetTenantIDContext(c.Request.Context(), tenantID))

		c.Next()
	}
}
