package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/repair-desk/internal/auth"
	"github.com/BruksfildServices01/repair-desk/internal/authz"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
)

const (
	ContextIdentity = "identity"
	ContextClaims   = "claims"

	SessionCookie = "session"
)

// AuthMiddleware accepts a bearer token or the session cookie set at login
// and stores the caller's identity in the context.
func AuthMiddleware(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token == "" {
			httperr.Respond(c, httperr.ErrUnauthorized("authentication_required", "Authentication required."))
			return
		}

		id, claims, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		c.Set(ContextIdentity, id)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Identity returns the authenticated caller, or nil outside AuthMiddleware.
func Identity(c *gin.Context) *authz.Identity {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil
	}
	id, _ := v.(*authz.Identity)
	return id
}

func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// RequireRole rejects the request unless the caller has exactly role. Use
// cases run the same guard again, so this only saves the round trip.
func RequireRole(role authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authz.Require(Identity(c), role); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.Next()
	}
}
