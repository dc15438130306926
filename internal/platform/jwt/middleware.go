package jwtmw

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"account_backend/internal/api"
)

const (
	// ContextSubject is the gin context key holding the verified token subject.
	ContextSubject = "subject"
	// ContextToken is the gin context key holding the raw bearer token.
	ContextToken = "token"
)

// Verifier validates a token and returns its subject.
type Verifier interface {
	Verify(token string) (string, error)
}

// AuthRequired returns a Gin middleware function that validates bearer tokens
// and restricts access to authenticated users only.
func AuthRequired(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		tokenStr, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			Unauthorized(c, "missing bearer token")
			return
		}

		// 2. Verify signature and expiry
		subject, err := v.Verify(tokenStr)
		if err != nil {
			slog.Warn("token rejected", "error", err, "remote_addr", c.ClientIP())
			msg := "invalid token"
			if errors.Is(err, ErrTokenExpired) {
				msg = "token expired"
			}
			Unauthorized(c, msg)
			return
		}

		// 3. Pass control to the next handler
		c.Set(ContextSubject, subject)
		c.Set(ContextToken, tokenStr)
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// Unauthorized aborts with 401 and the WWW-Authenticate challenge.
func Unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Code: api.CodeUnauthorized, Error: msg})
}
