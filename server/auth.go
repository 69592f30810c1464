package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/validate"
)

const sessionCookie = "taskforge_session"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type requestResetRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type tokenData struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

func authData(result *auth.AuthResult) map[string]interface{} {
	return map[string]interface{}{
		"user":       result.User,
		"token":      result.Token,
		"expires_at": result.ExpiresAt.Format(time.RFC3339),
	}
}

// handleRegister handles user registration
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if err := validate.Register(req.Username, req.Email, req.FullName, req.Password); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := s.engine.Register(c.Request().Context(),
		req.Username, req.Email, req.FullName, req.Password)
	if err != nil {
		return s.failErr(c, err)
	}

	s.setSessionCookie(c, result.SessionID)
	return ok(c, http.StatusCreated, "registration successful", authData(result))
}

// handleLogin handles user login
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Login(req.Username, req.Password); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := s.engine.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return s.failErr(c, err)
	}

	s.setSessionCookie(c, result.SessionID)
	return ok(c, http.StatusOK, "login successful", authData(result))
}

// handleMe returns the current user
func (s *Server) handleMe(c echo.Context) error {
	user, err := s.engine.CurrentUser(c.Request().Context(), currentUserID(c))
	if err != nil {
		return s.failErr(c, err)
	}
	return ok(c, http.StatusOK, "", user.Public())
}

// handleLogout clears the server-side session. Logging out without an
// active session is not an error.
func (s *Server) handleLogout(c echo.Context) error {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		s.engine.Logout(cookie.Value)
	}
	s.clearSessionCookie(c)
	return ok(c, http.StatusOK, "logout successful", nil)
}

// handleRefresh issues a new session token from the validated claims
func (s *Server) handleRefresh(c echo.Context) error {
	token, expiresAt, err := s.engine.Refresh(currentUserID(c), currentUsername(c))
	if err != nil {
		return s.failErr(c, err)
	}
	return ok(c, http.StatusOK, "token refreshed", tokenData{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// handleRequestPasswordReset emails a reset link to the account holder
func (s *Server) handleRequestPasswordReset(c echo.Context) error {
	var req requestResetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Email(req.Email); err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.engine.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return s.failErr(c, err)
	}

	return ok(c, http.StatusOK, "a password reset link has been sent to your email", nil)
}

// handleResetPassword redeems a reset token and sets a new password
func (s *Server) handleResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		return badRequest(c, "token is required")
	}
	if err := validate.Password(req.NewPassword); err != nil {
		return badRequest(c, err.Error())
	}

	token, expiresAt, err := s.engine.ResetPassword(c.Request().Context(), req.Token, req.NewPassword)
	if err != nil {
		return s.failErr(c, err)
	}

	return ok(c, http.StatusOK, "password reset successful", tokenData{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

func (s *Server) setSessionCookie(c echo.Context, sessionID string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionLifetime().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
