package models

// File is a metadata record for an uploaded or drive-linked file. File bytes
// live elsewhere (object storage or the linked drive provider).
type File struct {
	BaseModel

	WorkspaceID string     `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`

	Name     string `gorm:"not null" json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`

	UploadedByID string `gorm:"type:uuid;not null" json:"uploaded_by_id"`
	UploadedBy   *User  `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`

	// Set when the file lives on a linked drive provider rather than local storage.
	Provider   string `gorm:"index" json:"provider,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}
