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

// FileService manages file metadata records. File bytes live in object
// storage or on a linked drive; only the catalogue is kept here.
type FileService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewFileService constructs a FileService with the provided dependencies.
func NewFileService(db *gorm.DB, audit *AuditService) (*FileService, error) {
	if db == nil {
		return nil, errors.New("file service: db is required")
	}
	return &FileService{db: db, audit: audit}, nil
}

// CreateFileInput describes a new file metadata record.
type CreateFileInput struct {
	Name       string
	MimeType   string
	Size       int64
	Provider   string
	ExternalID string
}

// Create records a file in the workspace catalogue. Requires file:upload.
func (s *FileService) Create(ctx context.Context, workspaceID, actorID string, input CreateFileInput) (*models.File, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionFileUpload); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("file name is required")
	}
	if input.Size < 0 {
		return nil, apperrors.NewBadRequest("file size cannot be negative")
	}

	file := &models.File{
		WorkspaceID:  workspaceID,
		Name:         name,
		MimeType:     strings.TrimSpace(input.MimeType),
		Size:         input.Size,
		UploadedByID: actorID,
		Provider:     strings.TrimSpace(input.Provider),
		ExternalID:   strings.TrimSpace(input.ExternalID),
	}
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, fmt.Errorf("file service: create file: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		Action:      AuditFileUploaded,
		UserID:      actorID,
		WorkspaceID: workspaceID,
		Details:     map[string]any{"file_id": file.ID, "name": file.Name, "size": file.Size},
	})

	return file, nil
}

// Delete removes a file record. Requires the file:delete permission.
func (s *FileService) Delete(ctx context.Context, workspaceID, actorID, fileID string) error {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionFileDelete); err != nil {
		return err
	}

	var file models.File
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, fileID).
		First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("file service: load file: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&file).Error; err != nil {
		return fmt.Errorf("file service: delete file: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		Action:      AuditFileDeleted,
		UserID:      actorID,
		WorkspaceID: workspaceID,
		Details:     map[string]any{"file_id": file.ID, "name": file.Name},
	})
	return nil
}

// List returns the workspace's file records.
func (s *FileService) List(ctx context.Context, workspaceID, actorID string) ([]models.File, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, actorID); err != nil {
		return nil, err
	}

	var files []models.File
	err := s.db.WithContext(ctx).
		Preload("UploadedBy").
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("file service: list files: %w", err)
	}
	return files, nil
}
