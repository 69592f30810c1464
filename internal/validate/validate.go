// Package validate checks request input before it reaches the services.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

const passwordSpecials = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// Username checks the username format: 3-50 characters, letters, digits
// and underscores only.
func Username(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return fmt.Errorf("username must be 3-50 characters")
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits, and underscores")
	}
	return nil
}

// Email checks the email format
func Email(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// Password checks the password policy: 8-128 characters with at least one
// uppercase letter, one lowercase letter, one digit, and one special
// character.
func Password(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must be at most 128 characters")
	}

	var upper, lower, digit, special bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case strings.ContainsRune(passwordSpecials, c):
			special = true
		}
	}
	switch {
	case !upper:
		return fmt.Errorf("password must contain an uppercase letter")
	case !lower:
		return fmt.Errorf("password must contain a lowercase letter")
	case !digit:
		return fmt.Errorf("password must contain a digit")
	case !special:
		return fmt.Errorf("password must contain a special character")
	}
	return nil
}

// Register checks a registration request
func Register(username, email, fullName, password string) error {
	if err := Username(username); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	if strings.TrimSpace(fullName) == "" {
		return fmt.Errorf("full name is required")
	}
	if len(fullName) > 100 {
		return fmt.Errorf("full name must be at most 100 characters")
	}
	return Password(password)
}

// Login checks a login request: both fields present, nothing more
func Login(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// ProjectName checks a project name
func ProjectName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	if len(name) > 200 {
		return fmt.Errorf("project name must be at most 200 characters")
	}
	return nil
}

// TaskTitle checks a task title
func TaskTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("task title is required")
	}
	if len(title) > 200 {
		return fmt.Errorf("task title must be at most 200 characters")
	}
	return nil
}

// CommentContent checks comment content
func CommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("comment content is required")
	}
	return nil
}
