package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/pdv-fiscal/pkg/branch"
	"github.com/hugohenrick/pdv-fiscal/pkg/tenant"
)

// JWTAuthMiddleware cria um middleware para autenticação JWT
func JWTAuthMiddleware() gin.HandlerFunc {
	jwtService, err := NewJWTService()
	if err != nil {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "Erro ao configurar autenticação",
				"details": "O serviço JWT não foi inicializado corretamente",
			})
		}
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Autenticação requerida",
				"details": "O cabeçalho Authorization não foi fornecido",
			})
			return
		}

		// Verificar o formato "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "Formato de token inválido",
				"details": "Use o formato 'Bearer <token>'",
			})
			return
		}

		claims, err := jwtService.ValidateToken(tokenParts[1])
		if err != nil {
			message := "Token inválido"
			if err == ErrExpiredToken {
				message = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": message,
				"details": err.Error(),
			})
			return
		}

		// Armazenar as claims no contexto
		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Set("user_name", claims.Name)
		c.Set("user_role", claims.Role)
		c.Set("branch_id", claims.BranchID)

		ctx := tenant.SetTenantIDContext(c.Request.Context(), claims.TenantID)
		if claims.BranchID != "" {
			ctx = branch.SetBranchID(ctx, claims.BranchID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
