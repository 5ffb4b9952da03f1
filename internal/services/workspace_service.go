package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
	apperrors "github.com/uniworkhq/uniwork/pkg/errors"
)

// WorkspaceService manages workspaces and their memberships.
type WorkspaceService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewWorkspaceService constructs a WorkspaceService with the provided dependencies.
func NewWorkspaceService(db *gorm.DB, audit *AuditService) (*WorkspaceService, error) {
	if db == nil {
		return nil, errors.New("workspace service: db is required")
	}
	return &WorkspaceService{db: db, audit: audit}, nil
}

// CreateWorkspaceInput describes the payload accepted by Create.
type CreateWorkspaceInput struct {
	Name        string
	Slug        string
	Description string
}

// Create registers a workspace and enrols the creator as its owner.
func (s *WorkspaceService) Create(ctx context.Context, ownerID string, input CreateWorkspaceInput) (*models.Workspace, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("workspace name is required")
	}
	slug := strings.TrimSpace(strings.ToLower(input.Slug))
	if slug == "" {
		slug = slugify(name)
	}

	workspace := &models.Workspace{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     ownerID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workspace).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.NewBadRequest("workspace slug already exists")
			}
			return fmt.Errorf("workspace service: create workspace: %w", err)
		}

		member := &models.WorkspaceMember{
			WorkspaceID: workspace.ID,
			UserID:      ownerID,
			Role:        string(rbac.RoleOwner),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("workspace service: enrol owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		Action:      AuditWorkspaceCreated,
		UserID:      ownerID,
		WorkspaceID: workspace.ID,
		Details:     map[string]any{"name": workspace.Name, "slug": workspace.Slug},
	})

	return workspace, nil
}

// Get returns the workspace when the user is one of its members.
func (s *WorkspaceService) Get(ctx context.Context, workspaceID, userID string) (*models.Workspace, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, userID); err != nil {
		return nil, err
	}

	var workspace models.Workspace
	if err := s.db.WithContext(ctx).First(&workspace, "id = ?", workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("workspace service: load workspace: %w", err)
	}
	return &workspace, nil
}

// ListForUser returns every workspace the user belongs to.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID string) ([]models.Workspace, error) {
	ctx = ensureContext(ctx)

	var workspaces []models.Workspace
	err := s.db.WithContext(ctx).
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Order("workspaces.created_at ASC").
		Find(&workspaces).Error
	if err != nil {
		return nil, fmt.Errorf("workspace service: list workspaces: %w", err)
	}
	return workspaces, nil
}

// UpdateWorkspaceInput describes mutable workspace fields.
type UpdateWorkspaceInput struct {
	Name        string
	Description *string
}

// Update modifies workspace metadata. Requires the workspace:update permission.
func (s *WorkspaceService) Update(ctx context.Context, workspaceID, actorID string, input UpdateWorkspaceInput) (*models.Workspace, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionWorkspaceUpdate); err != nil {
		return nil, err
	}

	var workspace models.Workspace
	if err := s.db.WithContext(ctx).First(&workspace, "id = ?", workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("workspace service: load workspace: %w", err)
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(input.Name); name != "" && name != workspace.Name {
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if len(updates) == 0 {
		return &workspace, nil
	}

	if err := s.db.WithContext(ctx).Model(&workspace).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("workspace service: update workspace: %w", err)
	}
	return &workspace, nil
}

// Delete removes the workspace and its memberships. Owner only.
func (s *WorkspaceService) Delete(ctx context.Context, workspaceID, actorID string) error {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionWorkspaceDelete); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ?", workspaceID).Delete(&models.WorkspaceMember{}).Error; err != nil {
			return fmt.Errorf("workspace service: delete members: %w", err)
		}
		if err := tx.Where("workspace_id = ?", workspaceID).Delete(&models.Invitation{}).Error; err != nil {
			return fmt.Errorf("workspace service: delete invitations: %w", err)
		}
		if err := tx.Delete(&models.Workspace{}, "id = ?", workspaceID).Error; err != nil {
			return fmt.Errorf("workspace service: delete workspace: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Action:      AuditWorkspaceDeleted,
		UserID:      actorID,
		WorkspaceID: workspaceID,
	})
	return nil
}

// ListMembers returns workspace members with their user records preloaded.
// Any member may list the roster.
func (s *WorkspaceService) ListMembers(ctx context.Context, workspaceID, actorID string) ([]models.WorkspaceMember, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, actorID); err != nil {
		return nil, err
	}

	var members []models.WorkspaceMember
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("workspace service: list members: %w", err)
	}
	return members, nil
}

// MemberRole exposes the role lookup for middleware and sibling services.
func (s *WorkspaceService) MemberRole(ctx context.Context, workspaceID, userID string) (rbac.Role, error) {
	return workspaceRole(ensureContext(ctx), s.db, workspaceID, userID)
}

// RemoveMember removes the target user from the workspace. Requires the
// workspace:remove_member permission; the owner can never be removed.
func (s *WorkspaceService) RemoveMember(ctx context.Context, workspaceID, actorID, targetUserID string) error {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionWorkspaceRemove); err != nil {
		return err
	}

	var target models.WorkspaceMember
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, targetUserID).
		First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("workspace service: load member: %w", err)
	}

	if target.Role == string(rbac.RoleOwner) {
		return ErrOwnerImmutable
	}

	if err := s.db.WithContext(ctx).Delete(&target).Error; err != nil {
		return fmt.Errorf("workspace service: remove member: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		Action:      AuditMemberRemoved,
		UserID:      actorID,
		WorkspaceID: workspaceID,
		Details:     map[string]any{"removed_user_id": targetUserID, "previous_role": target.Role},
	})
	return nil
}

// UpdateMemberRole changes the target member's role. Requires the
// workspace:update_role permission. The owner's role is immutable and the
// owner role itself cannot be granted this way.
func (s *WorkspaceService) UpdateMemberRole(ctx context.Context, workspaceID, actorID, targetUserID string, newRole rbac.Role) error {
	ctx = ensureContext(ctx)

	if !rbac.IsValid(newRole) || newRole == rbac.RoleOwner {
		return ErrInvalidRole
	}

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionWorkspaceUpdateRole); err != nil {
		return err
	}

	var target models.WorkspaceMember
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, targetUserID).
		First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("workspace service: load member: %w", err)
	}

	if target.Role == string(rbac.RoleOwner) {
		return ErrOwnerImmutable
	}
	if target.Role == string(newRole) {
		return nil
	}

	previous := target.Role
	if err := s.db.WithContext(ctx).Model(&target).Update("role", string(newRole)).Error; err != nil {
		return fmt.Errorf("workspace service: update role: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		Action:      AuditMemberRoleUpdated,
		UserID:      actorID,
		WorkspaceID: workspaceID,
		Details: map[string]any{
			"target_user_id": targetUserID,
			"previous_role":  previous,
			"new_role":       string(newRole),
		},
	})
	return nil
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
