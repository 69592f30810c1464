package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge/internal/logger"
	"github.com/taskforge/taskforge/internal/model"
)

// UserRepository is the persistence collaborator for user records.
// Lookups return (nil, nil) when no user matches; a non-nil error always
// means the persistence layer itself failed.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Insert(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
}

// Mailer delivers password-reset emails
type Mailer interface {
	SendPasswordReset(recipient, token, username string) error
}

// AuthResult is returned by operations that establish a login
type AuthResult struct {
	User      model.PublicUser
	Token     string
	ExpiresAt time.Time
	SessionID string
}

// Engine orchestrates registration, login, logout, token refresh, and the
// password-reset flow. It owns no state of its own; all collaborators are
// injected.
type Engine struct {
	users    UserRepository
	mailer   Mailer
	tokens   *TokenService
	hasher   Hasher
	sessions SessionStore
}

// NewEngine creates an auth engine
func NewEngine(users UserRepository, mailer Mailer, tokens *TokenService, sessions SessionStore) *Engine {
	return &Engine{
		users:    users,
		mailer:   mailer,
		tokens:   tokens,
		hasher:   NewHasher(),
		sessions: sessions,
	}
}

// badCredentials returns the login failure. Unknown usernames and wrong
// passwords share one message so usernames cannot be enumerated.
func badCredentials() *Error {
	return E(KindUnauthorized, "invalid username or password")
}

// Register creates a new account, logs it in, and returns the user with a
// fresh session token.
func (e *Engine) Register(ctx context.Context, username, email, fullName, password string) (*AuthResult, error) {
	existing, err := e.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, wrap(KindInternal, "could not create user", err)
	}
	if existing != nil {
		return nil, E(KindConflict, "username already taken")
	}

	existing, err = e.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, wrap(KindInternal, "could not create user", err)
	}
	if existing != nil {
		return nil, E(KindConflict, "email already in use")
	}

	hash, err := e.hasher.Hash(password)
	if err != nil {
		return nil, wrap(KindInternal, "could not create user", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.users.Insert(ctx, user); err != nil {
		return nil, wrap(KindInternal, "could not create user", err)
	}

	logger.Info("user registered", logger.F("username", username))
	return e.establishLogin(user)
}

// Login authenticates a user by username and password
func (e *Engine) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := e.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, wrap(KindInternal, "login failed", err)
	}
	if user == nil {
		return nil, badCredentials()
	}
	if !user.IsActive {
		return nil, E(KindForbidden, "account disabled")
	}
	if !e.hasher.Verify(password, user.PasswordHash) {
		return nil, badCredentials()
	}

	logger.Info("user logged in", logger.F("username", username))
	return e.establishLogin(user)
}

// Logout clears the server-side session. It is idempotent: logging out
// with no active session is not an error.
func (e *Engine) Logout(sessionID string) {
	if sessionID != "" {
		e.sessions.Close(sessionID)
	}
}

// Refresh issues a new session token from already-validated claims. The
// user record is not re-checked, so a user deactivated after the original
// token was issued can still refresh until it expires.
func (e *Engine) Refresh(userID, username string) (string, time.Time, error) {
	token, expiresAt, err := e.tokens.IssueSessionToken(userID, username)
	if err != nil {
		return "", time.Time{}, wrap(KindInternal, "could not refresh token", err)
	}
	return token, expiresAt, nil
}

// RequestPasswordReset issues a reset token for the account behind email
// and hands it to the mailer. The token is not persisted: if the send
// fails, the token is lost.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		return wrap(KindInternal, "could not request password reset", err)
	}
	if user == nil {
		return E(KindNotFound, "no account with that email")
	}
	if !user.IsActive {
		return E(KindForbidden, "account disabled")
	}

	token, err := e.tokens.IssueResetToken(email)
	if err != nil {
		return wrap(KindInternal, "could not request password reset", err)
	}

	if err := e.mailer.SendPasswordReset(email, token, user.Username); err != nil {
		return wrap(KindInternal, "could not send reset email", err)
	}

	logger.Info("password reset requested", logger.F("email", email))
	return nil
}

// ResetPassword redeems a reset token and overwrites the account password.
// Returns a fresh session token so the client can log in immediately.
func (e *Engine) ResetPassword(ctx context.Context, token, newPassword string) (string, time.Time, error) {
	email, err := e.tokens.VerifyResetToken(token)
	if err != nil {
		return "", time.Time{}, err
	}

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, wrap(KindInternal, "could not reset password", err)
	}
	if user == nil {
		return "", time.Time{}, E(KindNotFound, "no account with that email")
	}
	if !user.IsActive {
		return "", time.Time{}, E(KindForbidden, "account disabled")
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return "", time.Time{}, wrap(KindInternal, "could not reset password", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := e.users.Update(ctx, user); err != nil {
		return "", time.Time{}, wrap(KindInternal, "could not reset password", err)
	}

	logger.Info("password reset", logger.F("username", user.Username))
	return e.Refresh(user.ID, user.Username)
}

// CurrentUser loads the user record behind validated claims
func (e *Engine) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrap(KindInternal, "could not load user", err)
	}
	if user == nil {
		return nil, E(KindNotFound, "user not found")
	}
	return user, nil
}

// establishLogin issues a session token and opens a server-side session
func (e *Engine) establishLogin(user *model.User) (*AuthResult, error) {
	token, expiresAt, err := e.tokens.IssueSessionToken(user.ID, user.Username)
	if err != nil {
		return nil, wrap(KindInternal, "could not create session", err)
	}

	sessionID, err := NewSessionID()
	if err != nil {
		return nil, wrap(KindInternal, "could not create session", err)
	}
	e.sessions.Open(sessionID, Session{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})

	return &AuthResult{
		User:      user.Public(),
		Token:     token,
		ExpiresAt: expiresAt,
		SessionID: sessionID,
	}, nil
}
