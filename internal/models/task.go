package models

import "time"

// Task statuses.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task is a workspace work item.
type Task struct {
	BaseModel

	WorkspaceID string     `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Status      string `gorm:"not null;default:todo;index" json:"status"`

	CreatedByID string  `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy   *User   `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	AssigneeID  *string `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	Assignee    *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`

	DueAt *time.Time `json:"due_at,omitempty"`
}
