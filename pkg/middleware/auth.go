package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/luchocam/ridelima/pkg/common"
)

const (
	// UserIDKey is the gin context key for the authenticated user ID
	UserIDKey = "user_id"
	// UserRoleKey is the gin context key for the authenticated user role
	UserRoleKey = "user_role"
	// VehicleCategoryKey is the gin context key for a driver's vehicle category
	VehicleCategoryKey = "vehicle_category"
)

var (
	// ErrNoUserID indicates the request context carries no authenticated user
	ErrNoUserID = errors.New("no user ID in context")
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// in the gin context. Tokens are the mock-session JWTs issued by the login
// endpoint; there is no account database behind them.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid token claims")
			c.Abort()
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set(UserIDKey, sub)
		}
		if role, ok := claims["role"].(string); ok {
			c.Set(UserRoleKey, role)
		}
		if category, ok := claims["vehicle_category"].(string); ok {
			c.Set(VehicleCategoryKey, category)
		}

		c.Next()
	}
}

// RequireRole aborts the request unless the authenticated user has one of the
// given roles. Must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetUserRole(c)
		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}
		common.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
		c.Abort()
	}
}

// GetUserID extracts the authenticated user ID from the gin context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, ErrNoUserID
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, ErrNoUserID
	}
	return uuid.Parse(idStr)
}

// GetUserRole extracts the authenticated user role from the gin context
func GetUserRole(c *gin.Context) string {
	if role, exists := c.Get(UserRoleKey); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}

// GetVehicleCategory extracts a driver's vehicle category from the gin context
func GetVehicleCategory(c *gin.Context) string {
	if category, exists := c.Get(VehicleCategoryKey); exists {
		if v, ok := category.(string); ok {
			return v
		}
	}
	return ""
}
