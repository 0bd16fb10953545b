package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/medprep/medprep-backend/internal/model"
	"github.com/medprep/medprep-backend/internal/response"
	"github.com/medprep/medprep-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for validated JWT claims.
	ContextKeyClaims = "claims"
)

// Authenticate resolves the caller identity from a bearer token when one is
// present, without requiring it. Endpoints that degrade gracefully for
// anonymous callers (answer history, answered status) sit behind this.
func Authenticate(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err == nil {
			c.Set(ContextKeyClaims, claims)
		}
		c.Next()
	}
}

// RequireAuth aborts with 401 unless the caller presents a valid bearer
// token backed by an active session.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireAdmin enforces the admin role server-side. It must run after
// RequireAuth; the role check reads the user record, not the token, so a
// revoked role takes effect immediately.
func RequireAdmin(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		externalID, ok := Identity(c)
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		isAdmin, err := userService.HasRole(c.Request.Context(), externalID, model.RoleAdmin)
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if !isAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}

		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context, or nil.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// Identity returns the caller's external identity, if authenticated.
func Identity(c *gin.Context) (string, bool) {
	claims := GetClaims(c)
	if claims == nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

func extractAndValidateClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = parts[1]
		}
	}

	if tokenStr == "" {
		return nil, service.ErrNoActiveSession
	}

	claims, err := authService.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}

	// The token must still map to the active session; logout kills it.
	if err := authService.ValidateSession(c.Request.Context(), claims.Subject, claims.ID); err != nil {
		return nil, err
	}

	return claims, nil
}
