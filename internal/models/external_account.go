package models

import "time"

// ExternalAccount stores the OAuth credential set binding one user to one
// drive provider. The (UserID, Provider) pair is unique: writes are upserts,
// never inserts of a second row.
type ExternalAccount struct {
	BaseModel

	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_user_provider" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Provider   string `gorm:"not null;uniqueIndex:idx_user_provider" json:"provider"`
	ProviderID string `gorm:"not null" json:"provider_id"`

	AccessToken  string    `gorm:"not null" json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}
