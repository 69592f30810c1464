package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/internal/config"
)

// envelope mirrors the response wrapper with the payload left raw so each
// test can decode it into the shape it expects.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		DatabaseDriver: "sqlite",
		DatabaseURL:    filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:      "test-secret",
		TokenLifetime:  "24h",
		ResetLifetime:  "15m",
		SessionTTL:     "12h",
	}

	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// doJSON performs a request against the server's router and decodes the
// response envelope.
func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

// registerUser registers an account and returns its session token and id
func registerUser(t *testing.T, s *Server, username, email string) (token, userID string) {
	t.Helper()

	rec, env := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":  username,
		"email":     email,
		"full_name": "Test User",
		"password":  "Secret123!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "register failed: %s", env.Message)

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	require.NotEmpty(t, data.User.ID)
	return data.Token, data.User.ID
}

// createProject creates a project as the given user and returns its id
func createProject(t *testing.T, s *Server, token, name string) string {
	t.Helper()

	rec, env := doJSON(t, s, http.MethodPost, "/api/projects", token, map[string]string{
		"name": name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "create project failed: %s", env.Message)

	var project struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &project))
	return project.ID
}

// createTask creates a task in a project and returns its id
func createTask(t *testing.T, s *Server, token, projectID, title string) string {
	t.Helper()

	rec, env := doJSON(t, s, http.MethodPost, "/api/tasks", token, map[string]string{
		"title":      title,
		"project_id": projectID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "create task failed: %s", env.Message)

	var task struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &task))
	return task.ID
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestPaginationBounds(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token, _ := registerUser(t, s, "alice", "alice@example.com")

	for _, q := range []string{"", "?skip=-5", "?limit=0", "?limit=9999", "?skip=abc&limit=xyz"} {
		rec, env := doJSON(t, s, http.MethodGet, "/api/projects"+q, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("query %q: %s", q, env.Message))
	}
}
