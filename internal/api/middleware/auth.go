package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopstack-backend/internal/domain/user"
	"github.com/shopstack-backend/internal/platform/auth"
)

const (
	// UserIDKey is the gin context key carrying the authenticated user's id
	UserIDKey = "auth_user_id"

	// UserRoleKey is the gin context key carrying the authenticated user's role
	UserRoleKey = "auth_user_role"
)

// RequireAuth validates the Bearer token and stores the caller's identity in
// the request context. Requests without a valid token are rejected with 401.
func RequireAuth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			abortUnauthorized(c, "Authorization header must be a Bearer token")
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)

		c.Next()
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role.
// Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(UserRoleKey)
		if !exists || role != user.RoleAdmin {
			response := gin.H{
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Admin access required",
				},
			}
			if id := GetCorrelationID(c); id != "" {
				response["correlation_id"] = id
			}
			c.AbortWithStatusJSON(http.StatusForbidden, response)
			return
		}

		c.Next()
	}
}

// GetUserID retrieves the authenticated user's id from the gin context.
// Returns uuid.Nil when the request is unauthenticated.
func GetUserID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(UserIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func abortUnauthorized(c *gin.Context, message string) {
	response := gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	}
	if id := GetCorrelationID(c); id != "" {
		response["correlation_id"] = id
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, response)
}
