package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec, env := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":  "alice",
		"email":     "alice@example.com",
		"full_name": "Alice A",
		"password":  "Secret123!",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "registration successful", env.Message)

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "alice", data.User.Username)
	assert.Equal(t, "alice@example.com", data.User.Email)

	// The password hash never appears in the response.
	assert.NotContains(t, string(env.Data), "password")

	// The returned token carries the registered identity.
	claims, err := s.tokens.VerifySessionToken(data.Token)
	require.NoError(t, err)
	assert.Equal(t, data.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	// A session cookie rides along with the token.
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "session cookie not set")
}

func TestRegisterEndpointRejectsBadInput(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"short username", map[string]string{
			"username": "ab", "email": "a@example.com", "full_name": "A", "password": "Secret123!"}},
		{"bad email", map[string]string{
			"username": "alice", "email": "nope", "full_name": "A", "password": "Secret123!"}},
		{"weak password", map[string]string{
			"username": "alice", "email": "a@example.com", "full_name": "A", "password": "secret"}},
		{"missing full name", map[string]string{
			"username": "alice", "email": "a@example.com", "full_name": " ", "password": "Secret123!"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doJSON(t, s, http.MethodPost, "/api/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestRegisterEndpointConflict(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	registerUser(t, s, "alice", "alice@example.com")

	rec, env := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":  "alice",
		"email":     "fresh@example.com",
		"full_name": "Alice A",
		"password":  "Secret123!",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username already taken", env.Message)

	rec, env = doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":  "alice2",
		"email":     "alice@example.com",
		"full_name": "Alice A",
		"password":  "Secret123!",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already in use", env.Message)
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	registerUser(t, s, "alice", "alice@example.com")

	rec, env := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "login successful", env.Message)

	// Wrong password and unknown username are indistinguishable.
	wrongRec, wrongEnv := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "WrongPass1!",
	})
	ghostRec, ghostEnv := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "Secret123!",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongRec.Code)
	assert.Equal(t, http.StatusUnauthorized, ghostRec.Code)
	assert.Equal(t, wrongEnv.Message, ghostEnv.Message)
}

func TestMeEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token, userID := registerUser(t, s, "alice", "alice@example.com")

	rec, env := doJSON(t, s, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec, env := doJSON(t, s, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authorization required", env.Message)

	rec, env = doJSON(t, s, http.MethodGet, "/api/auth/me", "garbage.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", env.Message)

	// A reset token is not a session token.
	resetToken, err := s.tokens.IssueResetToken("alice@example.com")
	require.NoError(t, err)
	rec, env = doJSON(t, s, http.MethodGet, "/api/auth/me", resetToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid token", env.Message)
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token, _ := registerUser(t, s, "alice", "alice@example.com")

	rec, env := doJSON(t, s, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logout successful", env.Message)

	// The session cookie is cleared.
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value == "" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie not cleared")

	// The stateless token keeps working until it expires.
	rec, _ = doJSON(t, s, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token, userID := registerUser(t, s, "alice", "alice@example.com")

	rec, env := doJSON(t, s, http.MethodPost, "/api/auth/refresh", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "token refreshed", env.Message)

	var data struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	assert.NotEmpty(t, data.ExpiresAt)

	claims, err := s.tokens.VerifySessionToken(data.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestRequestPasswordResetEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	registerUser(t, s, "alice", "alice@example.com")

	// Unknown email does not leak through a generic message.
	rec, env := doJSON(t, s, http.MethodPost, "/api/auth/request-password-reset", "", map[string]string{
		"email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no account with that email", env.Message)

	// Mail is not configured in tests, so a valid request fails at the
	// send step.
	rec, env = doJSON(t, s, http.MethodPost, "/api/auth/request-password-reset", "", map[string]string{
		"email": "alice@example.com",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "could not send reset email", env.Message)
	// Debug is off: no raw diagnostics in the envelope.
	assert.Empty(t, env.Error)
}

func TestResetPasswordEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	registerUser(t, s, "alice", "alice@example.com")

	resetToken, err := s.tokens.IssueResetToken("alice@example.com")
	require.NoError(t, err)

	rec, env := doJSON(t, s, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token":        resetToken,
		"new_password": "NewPass456!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "password reset successful", env.Message)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)

	// New password logs in, the old one no longer does.
	rec, _ = doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "NewPass456!",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "Secret123!",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResetPasswordEndpointRejectsBadInput(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec, env := doJSON(t, s, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token":        "  ",
		"new_password": "NewPass456!",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "token is required", env.Message)

	rec, env = doJSON(t, s, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token":        "something",
		"new_password": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(env.Message, "password must"))

	rec, _ = doJSON(t, s, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token":        "garbage",
		"new_password": "NewPass456!",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
