package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds server settings. Values come from an optional yaml file
// with TASKFORGE_* environment variables as fallbacks.
type Config struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`

	// Database
	DatabaseDriver string `yaml:"database_driver" json:"database_driver"` // postgres or sqlite
	DatabaseURL    string `yaml:"database_url" json:"database_url"`

	// Tokens and sessions. Token lifetime and session TTL are configured
	// independently; the signed token can outlive the server-side session
	// and vice versa.
	JWTSecret     string `yaml:"jwt_secret" json:"jwt_secret"`
	TokenLifetime string `yaml:"token_lifetime" json:"token_lifetime"`
	ResetLifetime string `yaml:"reset_lifetime" json:"reset_lifetime"`
	SessionTTL    string `yaml:"session_ttl" json:"session_ttl"`

	// Mail. Leaving host/user/pass empty disables outbound email.
	SMTPHost    string `yaml:"smtp_host" json:"smtp_host"`
	SMTPUser    string `yaml:"smtp_user" json:"smtp_user"`
	SMTPPass    string `yaml:"smtp_pass" json:"smtp_pass"`
	MailSender  string `yaml:"mail_sender" json:"mail_sender"`
	FrontendURL string `yaml:"frontend_url" json:"frontend_url"`

	// Debug attaches raw diagnostic strings to internal-error responses
	Debug bool `yaml:"debug" json:"debug"`

	// Logging
	LogLevel   string `yaml:"log_level" json:"log_level"`
	LogFile    string `yaml:"log_file" json:"log_file"`
	LogConsole bool   `yaml:"log_console" json:"log_console"`
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:     getEnv("TASKFORGE_ADDR", ":8080"),
		DatabaseDriver: getEnv("TASKFORGE_DB_DRIVER", "postgres"),
		DatabaseURL:    getEnv("TASKFORGE_DB_URL", "postgres://localhost:5432/taskforge?sslmode=disable"),
		JWTSecret:      getEnv("TASKFORGE_JWT_SECRET", ""),
		TokenLifetime:  getEnv("TASKFORGE_TOKEN_LIFETIME", "24h"),
		ResetLifetime:  getEnv("TASKFORGE_RESET_LIFETIME", "15m"),
		SessionTTL:     getEnv("TASKFORGE_SESSION_TTL", "12h"),
		SMTPHost:       getEnv("TASKFORGE_SMTP_HOST", ""),
		SMTPUser:       getEnv("TASKFORGE_SMTP_USER", ""),
		SMTPPass:       getEnv("TASKFORGE_SMTP_PASS", ""),
		MailSender:     getEnv("TASKFORGE_MAIL_SENDER", "TaskForge <noreply@taskforge.local>"),
		FrontendURL:    getEnv("TASKFORGE_FRONTEND_URL", "http://localhost:3000"),
		Debug:          getEnv("TASKFORGE_DEBUG", "false") == "true",
		LogLevel:       getEnv("TASKFORGE_LOG_LEVEL", "INFO"),
		LogFile:        getEnv("TASKFORGE_LOG_FILE", ""),
		LogConsole:     getEnv("TASKFORGE_LOG_CONSOLE", "true") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load reads config from path, falling back to defaults when the file
// does not exist. Path "" means env/defaults only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, cfg.validate()
			}
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required (set TASKFORGE_JWT_SECRET)")
	}
	for _, d := range []string{c.TokenLifetime, c.ResetLifetime, c.SessionTTL} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid duration %q: %w", d, err)
		}
	}
	return nil
}

// TokenTTL returns the session-token lifetime
func (c *Config) TokenTTL() time.Duration { return mustDuration(c.TokenLifetime, 24*time.Hour) }

// ResetTTL returns the reset-token lifetime
func (c *Config) ResetTTL() time.Duration { return mustDuration(c.ResetLifetime, 15*time.Minute) }

// SessionLifetime returns the server-side session TTL
func (c *Config) SessionLifetime() time.Duration { return mustDuration(c.SessionTTL, 12*time.Hour) }

func mustDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
