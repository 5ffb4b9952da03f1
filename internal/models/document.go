package models

// Document is a collaborative text document scoped to a workspace.
type Document struct {
	BaseModel

	WorkspaceID string     `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`

	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`

	CreatedByID    string  `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy      *User   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	LastEditedByID *string `gorm:"type:uuid" json:"last_edited_by_id,omitempty"`
	LastEditedBy   *User   `gorm:"foreignKey:LastEditedByID" json:"last_edited_by,omitempty"`
}
