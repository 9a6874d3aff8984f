// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "cart_session"

// CartSession ensures every visitor has a cart session cookie. The
// same id keys the redis cart and the builder selections, so guests
// keep their cart without logging in.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			// Seven days, matching the cart TTL in redis.
			c.SetCookie(sessionCookie, sessionID, 7*24*3600, "/", "", false, true)
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}

// GetSessionID extracts the cart session id from the gin context.
func GetSessionID(c *gin.Context) string {
	if v, exists := c.Get("session_id"); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
