package models

// Channel is a named chat stream inside a workspace.
type Channel struct {
	BaseModel

	WorkspaceID string     `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	CreatedByID string `gorm:"type:uuid;not null" json:"created_by_id"`

	Messages []Message `gorm:"foreignKey:ChannelID" json:"-"`
}

// Message is a single chat message. Delivery to connected clients is outside
// this service; rows here are the durable history.
type Message struct {
	BaseModel

	ChannelID string   `gorm:"type:uuid;not null;index" json:"channel_id"`
	Channel   *Channel `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`

	AuthorID string `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	Body string `gorm:"type:text;not null" json:"body"`
}
