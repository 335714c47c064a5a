// Package identity carrega o usuário autenticado pelo contexto da requisição.
package identity

import (
	"github.com/gin-gonic/gin"
)

const principalKey = "storefront.principal"

// Papéis conhecidos
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Principal é o usuário autenticado da requisição
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin informa se o papel tem permissões administrativas
func (p Principal) IsAdmin() bool {
	return IsAdminRole(p.Role)
}

// IsAdminRole informa se role é administrativo
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// Set grava o principal no contexto do gin
func Set(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// FromContext lê o principal gravado pelo middleware de autenticação
func FromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok && p.UserID != ""
}
