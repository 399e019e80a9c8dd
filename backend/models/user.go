package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusLocked   = "locked"
)

type User struct {
	gorm.Model
	Username            string     `json:"username" gorm:"uniqueIndex"`
	Email               *string    `json:"email,omitempty" gorm:"uniqueIndex"`
	PasswordHash        string     `json:"-"` // bcrypt, never serialize
	Role                string     `json:"role" gorm:"default:user"`
	Status              string     `json:"status" gorm:"default:active"`
	TwoFactorSecret     string     `json:"-"` // TOTP secret, never serialize
	TwoFactorEnabled    bool       `json:"two_factor_enabled" gorm:"default:false"`
	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	ResetToken          *string    `json:"-"`
	ResetTokenExpires   *time.Time `json:"-"`
	RememberToken       *string    `json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
	LastPasswordChange  *time.Time `json:"-"`
}
