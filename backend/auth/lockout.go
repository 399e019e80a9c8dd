package auth

import (
	"time"

	"github.com/tecnotooling/estoque/backend/models"
)

// IsLocked reports whether the account is under an active lock. A lock whose
// locked_until has passed no longer blocks login; the stale lock fields are
// cleared by the next successful login (RecordSuccess).
func IsLocked(u *models.User) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(time.Now())
}

// RecordFailure counts one failed login attempt and locks the account once
// the threshold is reached. The increment and the threshold check are each
// single statements at the store, so concurrent failures cannot under-count.
func (s *Service) RecordFailure(u *models.User) error {
	if err := s.store.IncrementFailedAttempts(u.ID); err != nil {
		return err
	}
	until := time.Now().Add(s.cfg.LockoutDuration)
	_, err := s.store.LockIfAttemptsReached(u.ID, s.cfg.LockoutThreshold, until)
	return err
}

// RecordSuccess resets the failure counter, reactivates the account and
// stamps last_login.
func (s *Service) RecordSuccess(u *models.User) error {
	return s.store.RecordLoginSuccess(u.ID, time.Now())
}
