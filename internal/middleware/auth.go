package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"tourbook/internal/auth"
	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

const identityKey = "identity"

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Email  string
	Role   domain.Role
}

// UserLookup loads the account behind a token.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticate returns middleware that requires a valid bearer token for an
// active account. The stored role wins over the role in the token.
func Authenticate(tokens *auth.TokenManager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			abort(c, http.StatusUnauthorized, "access token required")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abort(c, http.StatusUnauthorized, "invalid token")
				return
			}
			abort(c, http.StatusInternalServerError, "failed to load account")
			return
		}
		if !user.IsActive {
			abort(c, http.StatusForbidden, "account is deactivated")
			return
		}

		c.Set(identityKey, Identity{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		})
		c.Next()
	}
}

// RequireRole returns middleware that allows only the given roles.
// It must run after Authenticate.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !slices.Contains(roles, id.Role) {
			abort(c, http.StatusForbidden, "insufficient permissions")
			return
		}
		c.Next()
	}
}

// GetIdentity returns the caller stored by Authenticate.
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
