package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// resetPurpose tags reset tokens so a session token can never be redeemed
// as a password-reset credential.
const resetPurpose = "reset_password"

// SessionClaims is the payload of a session token
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// ResetClaims is the payload of a password-reset token
type ResetClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

// TokenService issues and verifies signed, time-limited tokens. Tokens are
// stateless: validity is signature correctness plus expiry, nothing is
// recorded server-side.
type TokenService struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// NewTokenService creates a token service signing with secret
func NewTokenService(secret []byte, sessionTTL, resetTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     secret,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

// IssueSessionToken creates a signed session token for an authenticated
// user. The user ID is always carried as a string so identifier formats
// round-trip exactly.
func (s *TokenService) IssueSessionToken(userID, username string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.sessionTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   userID,
		Username: username,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// VerifySessionToken validates a session token and returns its claims.
// An expired token fails with KindExpired; everything else (bad signature,
// malformed structure, missing claims) fails with KindInvalid.
func (s *TokenService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, E(KindExpired, "token expired")
		}
		return nil, E(KindInvalid, "invalid token")
	}
	if !token.Valid || claims.UserID == "" || claims.Username == "" {
		return nil, E(KindInvalid, "invalid token")
	}
	return claims, nil
}

// IssueResetToken creates a short-lived, purpose-tagged token proving
// control of an email address.
func (s *TokenService) IssueResetToken(email string) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.resetTTL)),
		},
		Email:   email,
		Purpose: resetPurpose,
	})

	return token.SignedString(s.secret)
}

// VerifyResetToken validates a reset token and returns the embedded email.
// Signature, expiry, and the purpose tag must all check out; a session
// token presented here fails even when otherwise well-formed.
func (s *TokenService) VerifyResetToken(tokenString string) (string, error) {
	claims := &ResetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", E(KindInvalid, "invalid or expired reset token")
	}
	if claims.Purpose != resetPurpose || claims.Email == "" {
		return "", E(KindInvalid, "invalid or expired reset token")
	}
	return claims.Email, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (interface{}, error) {
	return s.secret, nil
}
