package models

// Workspace is the tenancy boundary: every task, document, channel, file and
// calendar event belongs to exactly one workspace.
type Workspace struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`

	OwnerID string `gorm:"type:uuid;not null" json:"owner_id"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Members []WorkspaceMember `gorm:"foreignKey:WorkspaceID" json:"members,omitempty"`
}

// WorkspaceMember binds one user to one workspace with a role from the fixed
// hierarchy. A user appears at most once per workspace.
type WorkspaceMember struct {
	BaseModel

	WorkspaceID string     `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_user" json:"workspace_id"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`

	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_user" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Role string `gorm:"not null" json:"role"`
}
