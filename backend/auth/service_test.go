package auth

import (
	"testing"
	"time"

	"github.com/tecnotooling/estoque/backend/audit"
	"github.com/tecnotooling/estoque/backend/mailer"
	"github.com/tecnotooling/estoque/backend/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, mail mailer.Sender) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.ActivityEntry{}))

	if mail == nil {
		mail = mailer.Discard{}
	}
	svc := New(NewGormUserStore(db), mail, audit.Discard{}, Config{
		LockoutThreshold: 5,
		LockoutDuration:  30 * time.Minute,
		ResetTokenTTL:    time.Hour,
		PasswordMaxAge:   90 * 24 * time.Hour,
		TOTPIssuer:       "TecnoTooling",
		PublicURL:        "http://localhost:8080",
	})
	return svc, db
}

func createTestUser(t *testing.T, db *gorm.DB, username, password string, mutate func(*models.User)) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}
