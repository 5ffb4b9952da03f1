package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func TestFileCreateAndDelete(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewFileService(db, mustAuditService(t, db))
	require.NoError(t, err)

	file, err := service.Create(testCtx(), workspace.ID, owner.ID, CreateFileInput{
		Name:     "report.pdf",
		MimeType: "application/pdf",
		Size:     2048,
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, file.UploadedByID)

	require.NoError(t, service.Delete(testCtx(), workspace.ID, owner.ID, file.ID))

	var actions []string
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("action IN ?", []string{AuditFileUploaded, AuditFileDeleted}).
		Order("created_at ASC").
		Pluck("action", &actions).Error)
	assert.Equal(t, []string{AuditFileUploaded, AuditFileDeleted}, actions)
}

func TestFileViewerCannotUpload(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	viewer := seedUser(t, db, "viewer@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")
	seedMember(t, db, workspace, viewer, rbac.RoleViewer)

	service, err := NewFileService(db, mustAuditService(t, db))
	require.NoError(t, err)

	_, err = service.Create(testCtx(), workspace.ID, viewer.ID, CreateFileInput{Name: "nope.txt"})
	assert.ErrorIs(t, err, ErrInsufficientPermission)
}

func TestFileCreateValidation(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewFileService(db, mustAuditService(t, db))
	require.NoError(t, err)

	_, err = service.Create(testCtx(), workspace.ID, owner.ID, CreateFileInput{Name: "  "})
	require.Error(t, err)

	_, err = service.Create(testCtx(), workspace.ID, owner.ID, CreateFileInput{Name: "x", Size: -1})
	require.Error(t, err)
}
