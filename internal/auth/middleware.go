package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/salonspa/backend/internal/httputil"
	"github.com/salonspa/backend/internal/models"
	"golang.org/x/exp/slices"
)

const (
	contextUserID = "auth.userID"
	contextRole   = "auth.role"
)

var (
	ErrMissingToken = errors.New("se requiere un token de acceso")
	ErrForbidden    = errors.New("no tiene permisos para esta operación")
)

// Middleware rejects requests without a valid bearer token and stores the
// user ID and role in the context. OPTIONS requests are always passed on.
func (i *Issuer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			httputil.AbortWithError(c, http.StatusUnauthorized, ErrMissingToken)
			return
		}

		claims, err := i.Parse(strings.TrimSpace(token))
		if err != nil {
			httputil.AbortWithError(c, http.StatusUnauthorized, err)
			return
		}

		// Parse already checked the subject
		id, _ := claims.UserID()

		c.Set(contextUserID, id)
		c.Set(contextRole, claims.Role)
		c.Next()
	}
}

// RequireRole rejects requests of users that have none of the roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodOptions && !slices.Contains(roles, Role(c)) {
			httputil.AbortWithError(c, http.StatusForbidden, ErrForbidden)
			return
		}
		c.Next()
	}
}

// UserID returns the ID of the authenticated user.
func UserID(c *gin.Context) (uint, bool) {
	id, ok := c.Get(contextUserID)
	if !ok {
		return 0, false
	}

	uid, ok := id.(uint)
	return uid, ok
}

// Role returns the role of the authenticated user or an empty role.
func Role(c *gin.Context) models.Role {
	role, _ := c.Get(contextRole)
	r, _ := role.(models.Role)
	return r
}
