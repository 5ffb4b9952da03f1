package models

// Assistant message roles.
const (
	AssistantRoleUser      = "user"
	AssistantRoleAssistant = "assistant"
)

// AssistantConversation groups the messages a user has exchanged with the AI
// assistant inside a workspace.
type AssistantConversation struct {
	BaseModel

	WorkspaceID string     `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Title string `json:"title"`

	Messages []AssistantMessage `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// AssistantMessage is one turn in an assistant conversation.
type AssistantMessage struct {
	BaseModel

	ConversationID string                 `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Conversation   *AssistantConversation `gorm:"foreignKey:ConversationID" json:"-"`

	Role    string `gorm:"not null" json:"role"`
	Content string `gorm:"type:text;not null" json:"content"`
}
