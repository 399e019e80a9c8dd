package config

import (
	"os"
	"testing"
	"time"
)

func TestConfig_SessionTimeout(t *testing.T) {
	C = Config{}

	os.Setenv("SESSION_TIMEOUT", "1h")
	defer os.Unsetenv("SESSION_TIMEOUT")

	if err := Load(); err != nil {
		t.Fatal(err)
	}

	expected := 1 * time.Hour
	if C.Session.Timeout != expected {
		t.Errorf("Expected session timeout %v, got %v", expected, C.Session.Timeout)
	}
}

func TestConfig_SessionTimeoutDefault(t *testing.T) {
	C = Config{}

	os.Unsetenv("SESSION_TIMEOUT")

	if err := Load(); err != nil {
		t.Fatal(err)
	}

	// Default should be 24 hours
	expected := 24 * time.Hour
	if C.Session.Timeout != expected {
		t.Errorf("Expected default session timeout %v, got %v", expected, C.Session.Timeout)
	}
}

func TestConfig_InactivityTimeoutDefault(t *testing.T) {
	C = Config{}

	os.Unsetenv("SESSION_INACTIVITY_TIMEOUT")

	if err := Load(); err != nil {
		t.Fatal(err)
	}

	expected := 30 * time.Minute
	if C.Session.InactivityTimeout != expected {
		t.Errorf("Expected default inactivity timeout %v, got %v", expected, C.Session.InactivityTimeout)
	}
}

func TestConfig_LockoutDefaults(t *testing.T) {
	C = Config{}

	os.Unsetenv("LOCKOUT_MAX_ATTEMPTS")
	os.Unsetenv("LOCKOUT_DURATION")

	if err := Load(); err != nil {
		t.Fatal(err)
	}

	if C.Lockout.MaxAttempts != 5 {
		t.Errorf("Expected default lockout threshold 5, got %d", C.Lockout.MaxAttempts)
	}
	if C.Lockout.Duration != 30*time.Minute {
		t.Errorf("Expected default lockout duration 30m, got %v", C.Lockout.Duration)
	}
}

func TestConfig_LockoutOverrides(t *testing.T) {
	C = Config{}

	os.Setenv("LOCKOUT_MAX_ATTEMPTS", "3")
	os.Setenv("LOCKOUT_DURATION", "10m")
	defer os.Unsetenv("LOCKOUT_MAX_ATTEMPTS")
	defer os.Unsetenv("LOCKOUT_DURATION")

	if err := Load(); err != nil {
		t.Fatal(err)
	}

	if C.Lockout.MaxAttempts != 3 {
		t.Errorf("Expected lockout threshold 3, got %d", C.Lockout.MaxAttempts)
	}
	if C.Lockout.Duration != 10*time.Minute {
		t.Errorf("Expected lockout duration 10m, got %v", C.Lockout.Duration)
	}
}
