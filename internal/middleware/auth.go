package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cashtrackr/internal/auth"
	"cashtrackr/internal/service"
)

const (
	// principalKey is the gin context key for the authenticated principal.
	principalKey = "principal"
	// budgetKey is the gin context key for the budget resolved from the path.
	budgetKey = "budget"
	// expenseKey is the gin context key for the expense resolved from the path.
	expenseKey = "expense"
)

// GetPrincipal extracts the authenticated principal from the context.
// Only routes behind RequireAuth may call it; the gate guarantees the
// principal is present there.
func GetPrincipal(c *gin.Context) *auth.Principal {
	principal, _ := c.Get(principalKey)
	return principal.(*auth.Principal)
}

// RequireAuth returns the authentication gate run on every protected
// request. It expects an "Authorization: Bearer <token>" header, validates
// the session token, resolves the embedded user ID to a principal and
// attaches it to the context.
//
// Every credential failure answers 401: missing header, malformed header,
// bad or expired token, and a token whose user no longer exists.
func RequireAuth(jwtManager *auth.JWTManager, accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		// Fetch only the non-sensitive projection. A valid token for a
		// deleted user is still a dead credential.
		principal, err := accounts.CurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}
