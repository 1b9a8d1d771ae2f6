package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Mandar-Sonkusare/esg/internal/errors"
)

// ContextUserID is the gin context key holding the authenticated user id
const ContextUserID = "user_id"

// Middleware requires a valid "Authorization: Bearer <access token>" header
// and stores the user id under ContextUserID.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			errors.Respond(c, errors.NewAuthenticationError("No token, authorization denied", nil))
			return
		}

		userID, err := s.ValidateAccessToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			errors.Respond(c, err)
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the id set by Middleware, or "" when absent
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
