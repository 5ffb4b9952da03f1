package models

import "time"

// User describes an account that can belong to any number of workspaces.
type User struct {
	BaseModel

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Avatar   string `json:"avatar"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	Memberships      []WorkspaceMember `gorm:"foreignKey:UserID" json:"-"`
	ExternalAccounts []ExternalAccount `gorm:"foreignKey:UserID" json:"-"`

	LastLoginAt *time.Time `json:"last_login_at"`
}
