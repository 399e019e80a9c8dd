package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// RequestReset mints a single-use reset token for the account registered
// under email and mails the reset link. The outcome is identical whether or
// not the email exists, so the endpoint cannot be used to probe accounts.
func (s *Service) RequestReset(email string) error {
	user, err := s.store.FindByEmail(email)
	if errors.Is(err, ErrUserNotFound) {
		// Uniform response: pretend the mail went out.
		return nil
	}
	if err != nil {
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.cfg.ResetTokenTTL)

	if err := s.store.SetResetToken(user.ID, token, expires); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.PublicURL, token)
	html := fmt.Sprintf(`
		<p>Você solicitou a redefinição de sua senha.</p>
		<p>Clique no link abaixo para redefinir sua senha:</p>
		<a href="%s">Redefinir Senha</a>
		<p>Este link expira em 1 hora.</p>
	`, resetLink)

	if err := s.mail.Send(email, "Redefinição de Senha", html); err != nil {
		slog.Error("reset mail delivery failed", "source", "auth", "user_id", user.ID, "error", err.Error())
		return err
	}
	return nil
}

// CompleteReset exchanges a valid, unexpired token for a new password. Token
// consumption and the password update are one atomic store mutation, so a
// token can be spent at most once even across concurrent requests.
func (s *Service) CompleteReset(token, newPassword, ip, userAgent string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.store.FindByResetToken(token)
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	consumed, err := s.store.ConsumeResetToken(token, string(hash), time.Now())
	if err != nil {
		return err
	}
	if !consumed {
		// Expired, or another request spent it first.
		return ErrInvalidResetToken
	}

	s.audit.Append(user.ID, "password_reset", "Password reset successfully", ip, userAgent)
	return nil
}

// ChangePassword is the authenticated path: the caller must prove the
// current password before the new one is accepted.
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword, ip, userAgent string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.store.FindByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrBadPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.store.SetPassword(user.ID, string(hash), time.Now()); err != nil {
		return err
	}

	s.audit.Append(user.ID, "password_change", "Password changed", ip, userAgent)
	return nil
}
