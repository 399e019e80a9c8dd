package auth

import (
	"errors"
	"time"

	"github.com/tecnotooling/estoque/backend/models"

	"gorm.io/gorm"
)

// UserStore is the credential store consumed by the Service. The mutating
// methods that matter for correctness (failed-attempt counting, lock
// threshold, reset-token consumption) are single atomic statements so two
// concurrent requests can never under-count or double-spend.
type UserStore interface {
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByResetToken(token string) (*models.User, error)
	Create(u *models.User) error

	IncrementFailedAttempts(id uint) error
	LockIfAttemptsReached(id uint, threshold int, until time.Time) (bool, error)
	RecordLoginSuccess(id uint, at time.Time) error

	SaveRememberToken(id uint, token string) error
	ClearRememberToken(id uint) error

	SetResetToken(id uint, token string, expires time.Time) error
	// ConsumeResetToken swaps the password hash and clears the token in one
	// statement, guarded by the expiry check. Returns false when the token
	// was already spent, expired, or never existed.
	ConsumeResetToken(token, newHash string, now time.Time) (bool, error)
	SetPassword(id uint, hash string, at time.Time) error

	SetTwoFactorSecret(id uint, secret string) error
	EnableTwoFactor(id uint) error
}

// GormUserStore backs UserStore with the application database.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) findOne(query string, args ...any) (*models.User, error) {
	var user models.User
	err := s.db.Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) FindByUsername(username string) (*models.User, error) {
	return s.findOne("username = ?", username)
}

func (s *GormUserStore) FindByID(id uint) (*models.User, error) {
	return s.findOne("id = ?", id)
}

func (s *GormUserStore) FindByEmail(email string) (*models.User, error) {
	return s.findOne("email = ?", email)
}

func (s *GormUserStore) FindByResetToken(token string) (*models.User, error) {
	return s.findOne("reset_token = ?", token)
}

func (s *GormUserStore) Create(u *models.User) error {
	return s.db.Create(u).Error
}

func (s *GormUserStore) IncrementFailedAttempts(id uint) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + 1")).Error
}

func (s *GormUserStore) LockIfAttemptsReached(id uint, threshold int, until time.Time) (bool, error) {
	res := s.db.Model(&models.User{}).
		Where("id = ? AND failed_login_attempts >= ?", id, threshold).
		Updates(map[string]any{
			"status":       models.StatusLocked,
			"locked_until": until,
		})
	return res.RowsAffected > 0, res.Error
}

func (s *GormUserStore) RecordLoginSuccess(id uint, at time.Time) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{
			"failed_login_attempts": 0,
			"status":                models.StatusActive,
			"locked_until":          nil,
			"last_login":            at,
		}).Error
}

func (s *GormUserStore) SaveRememberToken(id uint, token string) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Update("remember_token", token).Error
}

func (s *GormUserStore) ClearRememberToken(id uint) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Update("remember_token", nil).Error
}

func (s *GormUserStore) SetResetToken(id uint, token string, expires time.Time) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{
			"reset_token":         token,
			"reset_token_expires": expires,
		}).Error
}

func (s *GormUserStore) ConsumeResetToken(token, newHash string, now time.Time) (bool, error) {
	res := s.db.Model(&models.User{}).
		Where("reset_token = ? AND reset_token_expires > ?", token, now).
		Updates(map[string]any{
			"password_hash":        newHash,
			"reset_token":          nil,
			"reset_token_expires":  nil,
			"last_password_change": now,
		})
	return res.RowsAffected > 0, res.Error
}

func (s *GormUserStore) SetPassword(id uint, hash string, at time.Time) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":        hash,
			"last_password_change": at,
		}).Error
}

func (s *GormUserStore) SetTwoFactorSecret(id uint, secret string) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Update("two_factor_secret", secret).Error
}

func (s *GormUserStore) EnableTwoFactor(id uint) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Update("two_factor_enabled", true).Error
}
