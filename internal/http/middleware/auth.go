// Package middleware – bearer-token authentication.
//
// RequireAuth guards the authenticated API surface (/auth/me, /user-recipes,
// /favorites). The three 401 outcomes carry distinct messages so clients can
// tell a missing token from an expired one from a garbage one.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peteoy/recipe-backend/internal/auth"
)

// Context keys populated by RequireAuth for downstream handlers.
const (
	CtxKeyUserID   = "userID"
	CtxKeyUsername = "username"
)

// authFailure is the 401 envelope: message plus success=false, matching the
// response shape of the rest of the API.
type authFailure struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// RequireAuth returns middleware that authenticates the request via the
// Authorization header ("Bearer <token>") and stores the token identity in
// the Gin context.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, authFailure{Message: "No token provided"})
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := tokens.Verify(token)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, authFailure{Message: msg})
			return
		}

		c.Set(CtxKeyUserID, claims.UserID)
		c.Set(CtxKeyUsername, claims.Username)
		c.Next()
	}
}

// AuthUserID returns the authenticated user's internal id, or "" when the
// request did not pass through RequireAuth.
func AuthUserID(c *gin.Context) string {
	if v, ok := c.Get(CtxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// AuthUsername returns the authenticated username, or "".
func AuthUsername(c *gin.Context) string {
	if v, ok := c.Get(CtxKeyUsername); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
