package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of a sensitive action. Rows are written
// best-effort and never updated or read back by the action that produced them.
type AuditLog struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	Action string `gorm:"not null;index" json:"action"`

	UserID *string `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	WorkspaceID *string `gorm:"type:uuid;index" json:"workspace_id,omitempty"`

	Details   datatypes.JSON `json:"details,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
