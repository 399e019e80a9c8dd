package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen       string         `yaml:"listen"`
	PublicURL    string         `yaml:"public_url"`
	DatabasePath string         `yaml:"database_path"`
	PublicDir    string         `yaml:"public_dir"`
	Session      SessionConfig  `yaml:"session"`
	Lockout      LockoutConfig  `yaml:"lockout"`
	Password     PasswordConfig `yaml:"password"`
	Remember     RememberConfig `yaml:"remember"`
	Reset        ResetConfig    `yaml:"reset"`
	SMTP         SMTPConfig     `yaml:"smtp"`
	TLS          TLSConfig      `yaml:"tls"`
}

type SessionConfig struct {
	Secret            string        `yaml:"secret"`
	Timeout           time.Duration `yaml:"timeout"`            // cookie max age
	InactivityTimeout time.Duration `yaml:"inactivity_timeout"` // sliding server-side window
}

type LockoutConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Duration    time.Duration `yaml:"duration"`
}

type PasswordConfig struct {
	RotationMaxAge time.Duration `yaml:"rotation_max_age"`
}

type RememberConfig struct {
	MaxAge time.Duration `yaml:"max_age"`
}

type ResetConfig struct {
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type TLSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cert    string `yaml:"cert"`
	Key     string `yaml:"key"`
}

var C Config

func Load() error {
	// Defaults
	C = Config{
		Listen:       ":8080",
		PublicURL:    "http://localhost:8080",
		DatabasePath: "estoque.db",
		PublicDir:    "public",
		Session: SessionConfig{
			Timeout:           24 * time.Hour,
			InactivityTimeout: 30 * time.Minute,
		},
		Lockout: LockoutConfig{
			MaxAttempts: 5,
			Duration:    30 * time.Minute,
		},
		Password: PasswordConfig{
			RotationMaxAge: 90 * 24 * time.Hour,
		},
		Remember: RememberConfig{
			MaxAge: 30 * 24 * time.Hour,
		},
		Reset: ResetConfig{
			TokenTTL: time.Hour,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
			From: "noreply@tecnotooling.com",
		},
	}

	// Load from YAML if exists
	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &C); err != nil {
			return err
		}
	}

	// Environment overrides
	if v := os.Getenv("LISTEN"); v != "" {
		C.Listen = v
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		C.PublicURL = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		C.DatabasePath = v
	}
	if v := os.Getenv("PUBLIC_DIR"); v != "" {
		C.PublicDir = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		C.Session.Secret = v
	}
	if v := os.Getenv("SESSION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			C.Session.Timeout = d
		}
	}
	if v := os.Getenv("SESSION_INACTIVITY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			C.Session.InactivityTimeout = d
		}
	}
	if v := os.Getenv("LOCKOUT_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			C.Lockout.MaxAttempts = n
		}
	}
	if v := os.Getenv("LOCKOUT_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			C.Lockout.Duration = d
		}
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		C.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.SMTP.Port = n
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		C.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		C.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		C.SMTP.From = v
	}
	if v := os.Getenv("TLS_ENABLED"); v == "true" {
		C.TLS.Enabled = true
	}
	if v := os.Getenv("TLS_CERT"); v != "" {
		C.TLS.Cert = v
	}
	if v := os.Getenv("TLS_KEY"); v != "" {
		C.TLS.Key = v
	}

	return nil
}
