package auth

import (
	"time"

	"github.com/tecnotooling/estoque/backend/models"

	"golang.org/x/crypto/bcrypt"
)

// LoginResult is returned by a successful password check.
type LoginResult struct {
	User  *models.User
	State State
	// RequiresTwoFactor is set when the account has 2FA enabled; the session
	// must stay in StateAwaitingTwoFactor until a code is verified.
	RequiresTwoFactor bool
	// RequiresPasswordChange signals that the password is older than the
	// rotation policy allows. Advisory only: nothing enforces it.
	RequiresPasswordChange bool
	// RememberToken is the opaque cookie value when remember-me was
	// requested, empty otherwise.
	RememberToken string
}

// Login runs the credential step of the state machine: lookup, lockout
// check, password comparison, failure accounting, remember-token minting and
// the 2FA fork. ip and userAgent feed the audit trail.
func (s *Service) Login(username, password string, remember bool, ip, userAgent string) (*LoginResult, error) {
	user, err := s.store.FindByUsername(username)
	if err != nil {
		return nil, err
	}

	// Locked accounts reject before any attempt is counted.
	if IsLocked(user) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if err := s.RecordFailure(user); err != nil {
			return nil, err
		}
		return nil, ErrBadPassword
	}

	if err := s.RecordSuccess(user); err != nil {
		return nil, err
	}

	result := &LoginResult{User: user}

	if remember {
		token := newRememberToken()
		if err := s.store.SaveRememberToken(user.ID, token); err != nil {
			return nil, err
		}
		result.RememberToken = token
	}

	s.audit.Append(user.ID, "login", "User logged in successfully", ip, userAgent)

	if user.TwoFactorEnabled {
		result.State = StateAwaitingTwoFactor
		result.RequiresTwoFactor = true
		return result, nil
	}

	result.State = StateAuthenticated
	result.RequiresPasswordChange = s.passwordExpired(user)
	return result, nil
}

// VerifyTwoFactor completes a login that stopped at the 2FA step. It is only
// legal from StateAwaitingTwoFactor; any other state is rejected without
// touching the account. 2FA failures are not coupled to the password lockout
// counter.
func (s *Service) VerifyTwoFactor(state State, userID uint, code, ip, userAgent string) (State, error) {
	if state != StateAwaitingTwoFactor {
		return state, ErrInvalidState
	}

	user, err := s.store.FindByID(userID)
	if err != nil {
		return state, err
	}

	if !validTOTPCode(user.TwoFactorSecret, code) {
		return state, ErrInvalidCode
	}

	s.audit.Append(user.ID, "2fa_verify", "Two-factor authentication verified", ip, userAgent)
	return StateAuthenticated, nil
}

func (s *Service) passwordExpired(user *models.User) bool {
	if user.LastPasswordChange == nil || s.cfg.PasswordMaxAge <= 0 {
		return false
	}
	return time.Since(*user.LastPasswordChange) > s.cfg.PasswordMaxAge
}
