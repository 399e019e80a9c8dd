package auth

import (
	"time"

	"github.com/tecnotooling/estoque/backend/audit"
	"github.com/tecnotooling/estoque/backend/mailer"
)

// Config carries the security policy knobs the service needs. Values come
// from the application config at startup; tests construct their own.
type Config struct {
	LockoutThreshold int
	LockoutDuration  time.Duration
	ResetTokenTTL    time.Duration
	PasswordMaxAge   time.Duration
	TOTPIssuer       string
	PublicURL        string
}

// Service implements the authentication core: login state machine, lockout
// tracking, 2FA, and the password reset flow. It holds no global state; the
// store, mailer and audit recorder are injected so tests can swap them out.
type Service struct {
	store UserStore
	mail  mailer.Sender
	audit audit.Recorder
	cfg   Config
}

func New(store UserStore, mail mailer.Sender, rec audit.Recorder, cfg Config) *Service {
	return &Service{store: store, mail: mail, audit: rec, cfg: cfg}
}

// Store exposes the underlying user store for callers that need plain
// lookups (session guard, admin handlers).
func (s *Service) Store() UserStore {
	return s.store
}
