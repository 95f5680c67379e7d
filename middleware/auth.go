package middleware

import (
	"fmt"
	"strings"

	"github.com/ariebrainware/cloudvault/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	userIDContextKey   = "user_id"
	userRoleContextKey = "user_role"
)

// AuthRequired verifies the Authorization bearer token and stores the
// authenticated user's id and role in the request context. A token either
// fully verifies or the request is rejected with 401: bad signature,
// malformed payload, and elapsed expiry are all treated the same.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respondUnauthorized(c, "Authentication token required")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return util.GetJWTSecretByte(), nil
		})
		if err != nil || !token.Valid {
			respondUnauthorized(c, "Invalid or expired token")
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok || userID <= 0 {
			respondUnauthorized(c, "Invalid or expired token")
			return
		}
		role, ok := claims["role"].(string)
		if !ok || role == "" {
			respondUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(userIDContextKey, uint(userID))
		c.Set(userRoleContextKey, role)
		c.Next()
	}
}

func respondUnauthorized(c *gin.Context, msg string) {
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventUnauthorizedAccess,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   fmt.Sprintf("%s %s rejected: %s", c.Request.Method, c.Request.URL.Path, msg),
	})
	util.CallUserNotAuthorized(c, util.APIErrorParams{
		Msg: msg,
		Err: fmt.Errorf("%s", msg),
	})
	c.Abort()
}

// GetUserID returns the authenticated user id stored by AuthRequired.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDContextKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetUserRole returns the authenticated user role stored by AuthRequired.
func GetUserRole(c *gin.Context) (string, bool) {
	v, ok := c.Get(userRoleContextKey)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
