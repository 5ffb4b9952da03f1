package database

import (
	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.WorkspaceMember{},
		&models.Invitation{},
		&models.ExternalAccount{},
		&models.AuditLog{},
		&models.Task{},
		&models.Document{},
		&models.Channel{},
		&models.Message{},
		&models.File{},
		&models.CalendarEvent{},
		&models.AssistantConversation{},
		&models.AssistantMessage{},
	)
}
