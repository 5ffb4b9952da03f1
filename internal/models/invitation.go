package models

import "time"

// Invitation statuses. Pending invitations flip to expired lazily, the first
// time they are read after their expiry has passed.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusExpired  = "expired"
)

// Invitation is a time-boxed, single-use offer for an email address to join a
// workspace at a specified role.
type Invitation struct {
	BaseModel

	Token string `gorm:"uniqueIndex;not null" json:"-"`
	Email string `gorm:"not null;index" json:"email"`
	Role  string `gorm:"not null" json:"role"`

	Status string `gorm:"not null;default:pending;index" json:"status"`

	WorkspaceID string     `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`

	InvitedByID string `gorm:"type:uuid;not null" json:"invited_by_id"`
	InvitedBy   *User  `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`

	ExpiresAt  time.Time  `gorm:"index" json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}
