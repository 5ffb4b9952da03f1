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

// DocumentService manages workspace documents.
type DocumentService struct {
	db *gorm.DB
}

// NewDocumentService constructs a DocumentService using the provided database handle.
func NewDocumentService(db *gorm.DB) (*DocumentService, error) {
	if db == nil {
		return nil, errors.New("document service: db is required")
	}
	return &DocumentService{db: db}, nil
}

// Create adds a document to the workspace. Requires the doc:create permission.
func (s *DocumentService) Create(ctx context.Context, workspaceID, actorID, title, content string) (*models.Document, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionDocCreate); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewBadRequest("document title is required")
	}

	doc := &models.Document{
		WorkspaceID: workspaceID,
		Title:       title,
		Content:     content,
		CreatedByID: actorID,
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, fmt.Errorf("document service: create document: %w", err)
	}
	return doc, nil
}

// UpdateDocumentInput describes mutable document fields.
type UpdateDocumentInput struct {
	Title   *string
	Content *string
}

// Update modifies a document and stamps the editor. Requires doc:update.
func (s *DocumentService) Update(ctx context.Context, workspaceID, actorID, docID string, input UpdateDocumentInput) (*models.Document, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionDocUpdate); err != nil {
		return nil, err
	}

	doc, err := s.get(ctx, workspaceID, docID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"last_edited_by_id": actorID}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("document title is required")
		}
		updates["title"] = title
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}

	if err := s.db.WithContext(ctx).Model(doc).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("document service: update document: %w", err)
	}
	return s.get(ctx, workspaceID, docID)
}

// Delete removes a document. Requires the doc:delete permission.
func (s *DocumentService) Delete(ctx context.Context, workspaceID, actorID, docID string) error {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionDocDelete); err != nil {
		return err
	}

	doc, err := s.get(ctx, workspaceID, docID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(doc).Error; err != nil {
		return fmt.Errorf("document service: delete document: %w", err)
	}
	return nil
}

// List returns the workspace's documents without their content bodies.
func (s *DocumentService) List(ctx context.Context, workspaceID, actorID string) ([]models.Document, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, actorID); err != nil {
		return nil, err
	}

	var docs []models.Document
	err := s.db.WithContext(ctx).
		Select("id", "workspace_id", "title", "created_by_id", "last_edited_by_id", "created_at", "updated_at").
		Where("workspace_id = ?", workspaceID).
		Order("updated_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("document service: list documents: %w", err)
	}
	return docs, nil
}

// Get returns a single document visible to the actor.
func (s *DocumentService) Get(ctx context.Context, workspaceID, actorID, docID string) (*models.Document, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, actorID); err != nil {
		return nil, err
	}
	return s.get(ctx, workspaceID, docID)
}

func (s *DocumentService) get(ctx context.Context, workspaceID, docID string) (*models.Document, error) {
	var doc models.Document
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, docID).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("document service: load document: %w", err)
	}
	return &doc, nil
}
