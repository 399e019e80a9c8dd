package auth

import (
	"errors"

	"github.com/tecnotooling/estoque/backend/models"

	"golang.org/x/crypto/bcrypt"
)

// CreateUser provisions a new active account. Admin-only at the route level.
// The initial password goes through the same policy as password changes.
func (s *Service) CreateUser(username, email, password, role string) (*models.User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.store.FindByUsername(username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.StatusActive,
	}
	if email != "" {
		user.Email = &email
	}

	if err := s.store.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
