package audit

import (
	"log/slog"

	"github.com/tecnotooling/estoque/backend/models"

	"gorm.io/gorm"
)

// Recorder appends entries to the user activity trail. Appending is
// best-effort: a failed write must never fail the operation being audited,
// so implementations swallow errors.
type Recorder interface {
	Append(userID uint, action, description, ip, userAgent string)
}

// DBRecorder persists entries with gorm.
type DBRecorder struct {
	db *gorm.DB
}

func NewDBRecorder(db *gorm.DB) *DBRecorder {
	return &DBRecorder{db: db}
}

func (r *DBRecorder) Append(userID uint, action, description, ip, userAgent string) {
	entry := models.ActivityEntry{
		UserID:      userID,
		Action:      action,
		Description: description,
		IPAddress:   ip,
		UserAgent:   userAgent,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		slog.Warn("audit append failed", "source", "audit", "action", action, "error", err.Error())
	}
}

// Discard drops every entry. Used in tests.
type Discard struct{}

func (Discard) Append(userID uint, action, description, ip, userAgent string) {}
