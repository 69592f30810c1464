package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/taskforge/taskforge/internal/auth"
)

// Context keys set by authMiddleware
const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
)

// authMiddleware checks for a valid session token in the Authorization
// header. Expired and invalid tokens get distinct messages.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return fail(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return fail(c, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
		}

		claims, err := s.tokens.VerifySessionToken(token)
		if err != nil {
			if auth.KindOf(err) == auth.KindExpired {
				return fail(c, http.StatusUnauthorized, "token expired")
			}
			return fail(c, http.StatusUnauthorized, "invalid token")
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		return next(c)
	}
}

func currentUserID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}

func currentUsername(c echo.Context) string {
	name, _ := c.Get(ctxUsername).(string)
	return name
}
