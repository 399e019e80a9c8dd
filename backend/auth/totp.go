package auth

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/pquerna/otp/totp"
)

// TwoFactorSetup is handed back to the client after provisioning: the base32
// secret for manual entry and an inline QR image for authenticator apps.
type TwoFactorSetup struct {
	Secret    string
	QRCodeURL string
}

// validTOTPCode checks a time-based code against the stored secret with the
// library default one-step skew, so codes from the adjacent 30s windows are
// accepted.
func validTOTPCode(secret, code string) bool {
	return totp.Validate(code, secret)
}

// ProvisionTwoFactor generates a fresh TOTP secret for the user, persists it
// and returns the setup material. The account only becomes 2FA-enabled once
// ConfirmTwoFactorSetup sees a valid code for this secret.
func (s *Service) ProvisionTwoFactor(userID uint) (*TwoFactorSetup, error) {
	user, err := s.store.FindByID(userID)
	if err != nil {
		return nil, err
	}

	account := user.Username
	if user.Email != nil && *user.Email != "" {
		account = *user.Email
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.cfg.TOTPIssuer,
		AccountName: account,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.SetTwoFactorSecret(user.ID, key.Secret()); err != nil {
		return nil, err
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return &TwoFactorSetup{
		Secret:    key.Secret(),
		QRCodeURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// ConfirmTwoFactorSetup flips two_factor_enabled after the user proves the
// authenticator was provisioned correctly.
func (s *Service) ConfirmTwoFactorSetup(userID uint, code, ip, userAgent string) error {
	user, err := s.store.FindByID(userID)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == "" || !validTOTPCode(user.TwoFactorSecret, code) {
		return ErrInvalidCode
	}
	if err := s.store.EnableTwoFactor(user.ID); err != nil {
		return err
	}
	s.audit.Append(user.ID, "2fa_enable", "Two-factor authentication enabled", ip, userAgent)
	return nil
}
