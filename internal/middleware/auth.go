package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ContextIdentityKey = "identity"

// TokenResolver turns a bearer token into the identity it was issued for.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

func SessionRequired(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// Identity returns the identity stored by SessionRequired.
func Identity(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// BearerToken reads the token from the query string or the Authorization
// header. Browsers cannot set headers on WebSocket upgrades.
func BearerToken(c *gin.Context) (string, error) {
	if token := strings.TrimSpace(c.Query("token")); token != "" {
		return token, nil
	}
	return extractBearerToken(c.GetHeader("Authorization"))
}

func extractBearerToken(authHeader string) (string, error) {
	if strings.TrimSpace(authHeader) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
