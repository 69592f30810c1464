package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/taskforge/taskforge/internal/model"
)

// Session holds the saved login state for the CLI
type Session struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
}

// Client talks to the TaskForge API
type Client struct {
	session     *Session
	sessionPath string
	httpClient  *http.Client
}

// NewClient creates an API client, loading any saved session
func NewClient() (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	c := &Client{
		sessionPath: filepath.Join(home, ".taskforge", "session.json"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	c.loadSession()

	return c, nil
}

func (c *Client) loadSession() {
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		c.session = &Session{ServerURL: "http://localhost:8080"}
		return
	}

	c.session = &Session{}
	if json.Unmarshal(data, c.session) != nil || c.session.ServerURL == "" {
		c.session = &Session{ServerURL: "http://localhost:8080"}
	}
}

func (c *Client) saveSession() error {
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0600)
}

// SetServer sets the API server URL
func (c *Client) SetServer(url string) error {
	c.session.ServerURL = url
	return c.saveSession()
}

// IsLoggedIn returns true if a token is saved
func (c *Client) IsLoggedIn() bool {
	return c.session.Token != ""
}

// Username returns the saved username
func (c *Client) Username() string {
	return c.session.Username
}

// envelope mirrors the server's response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends a request and decodes the response envelope. A non-2xx status
// surfaces the server's message as the error.
func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.session.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("unexpected response from server (status %d)", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if env.Message != "" {
			return fmt.Errorf("%s", env.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

type authPayload struct {
	User  model.PublicUser `json:"user"`
	Token string           `json:"token"`
}

// Register creates a new account and saves the returned session
func (c *Client) Register(username, email, fullName, password string) error {
	var payload authPayload
	err := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username":  username,
		"email":     email,
		"full_name": fullName,
		"password":  password,
	}, &payload)
	if err != nil {
		return err
	}

	c.session.Token = payload.Token
	c.session.UserID = payload.User.ID
	c.session.Username = payload.User.Username
	return c.saveSession()
}

// Login authenticates and saves the returned session
func (c *Client) Login(username, password string) error {
	var payload authPayload
	err := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &payload)
	if err != nil {
		return err
	}

	c.session.Token = payload.Token
	c.session.UserID = payload.User.ID
	c.session.Username = payload.User.Username
	return c.saveSession()
}

// Logout ends the server session and clears the saved one
func (c *Client) Logout() error {
	// Best effort: clear local state even if the server is unreachable.
	c.do(http.MethodPost, "/api/auth/logout", nil, nil)

	c.session.Token = ""
	c.session.UserID = ""
	c.session.Username = ""
	return c.saveSession()
}

// RequestPasswordReset asks the server to email a reset link
func (c *Client) RequestPasswordReset(email string) error {
	return c.do(http.MethodPost, "/api/auth/request-password-reset",
		map[string]string{"email": email}, nil)
}

// ResetPassword redeems a reset token and saves the fresh session token
func (c *Client) ResetPassword(token, newPassword string) error {
	var payload struct {
		Token string `json:"token"`
	}
	err := c.do(http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token":        token,
		"new_password": newPassword,
	}, &payload)
	if err != nil {
		return err
	}

	c.session.Token = payload.Token
	return c.saveSession()
}

// MyProjects lists the projects owned by the logged-in user
func (c *Client) MyProjects() ([]model.Project, error) {
	var payload struct {
		Projects []model.Project `json:"projects"`
	}
	if err := c.do(http.MethodGet, "/api/projects/my-projects", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Projects, nil
}

// GetProject fetches a single project
func (c *Client) GetProject(id string) (*model.Project, error) {
	var project model.Project
	if err := c.do(http.MethodGet, "/api/projects/"+id, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project
func (c *Client) CreateProject(name, description string) (*model.Project, error) {
	var project model.Project
	err := c.do(http.MethodPost, "/api/projects", map[string]string{
		"name":        name,
		"description": description,
	}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectTasks lists the tasks in a project
func (c *Client) ProjectTasks(projectID string) ([]model.Task, error) {
	var payload struct {
		Tasks []model.Task `json:"tasks"`
	}
	if err := c.do(http.MethodGet, "/api/tasks/project/"+projectID, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tasks, nil
}

// CreateTask creates a task in a project
func (c *Client) CreateTask(projectID, title, priority, dueDate string) (*model.Task, error) {
	body := map[string]string{
		"project_id": projectID,
		"title":      title,
	}
	if priority != "" {
		body["priority"] = priority
	}
	if dueDate != "" {
		body["due_date"] = dueDate
	}

	var task model.Task
	if err := c.do(http.MethodPost, "/api/tasks", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CompleteTask marks a task done
func (c *Client) CompleteTask(taskID string) error {
	return c.do(http.MethodPut, "/api/tasks/"+taskID,
		map[string]string{"status": model.TaskDone}, nil)
}
