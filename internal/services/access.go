package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

// workspaceRole resolves the role the user holds in the workspace.
// ErrNotAMember is returned when no membership row exists.
func workspaceRole(ctx context.Context, db *gorm.DB, workspaceID, userID string) (rbac.Role, error) {
	var member models.WorkspaceMember
	err := db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotAMember
		}
		return "", fmt.Errorf("load membership: %w", err)
	}
	return rbac.Role(member.Role), nil
}

// requireWorkspacePermission loads the user's role and checks it against the
// permission table. Non-members and under-privileged roles both fail closed.
func requireWorkspacePermission(ctx context.Context, db *gorm.DB, workspaceID, userID string, action rbac.Action) (rbac.Role, error) {
	role, err := workspaceRole(ctx, db, workspaceID, userID)
	if err != nil {
		return "", err
	}
	if !rbac.HasPermission(role, action) {
		return "", ErrInsufficientPermission
	}
	return role, nil
}
