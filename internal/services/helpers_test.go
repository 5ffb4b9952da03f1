package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/app"
	"github.com/uniworkhq/uniwork/internal/database/testutil"
	"github.com/uniworkhq/uniwork/internal/drive"
	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:    email,
		Password: "not-a-real-hash",
		Name:     "Test User",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedWorkspace creates a workspace with the given owner enrolled.
func seedWorkspace(t *testing.T, db *gorm.DB, owner *models.User, slug string) *models.Workspace {
	t.Helper()

	workspace := &models.Workspace{
		Name:    "Workspace " + slug,
		Slug:    slug,
		OwnerID: owner.ID,
	}
	require.NoError(t, db.Create(workspace).Error)
	require.NoError(t, db.Create(&models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      owner.ID,
		Role:        string(rbac.RoleOwner),
	}).Error)
	return workspace
}

func seedMember(t *testing.T, db *gorm.DB, workspace *models.Workspace, user *models.User, role rbac.Role) {
	t.Helper()

	require.NoError(t, db.Create(&models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      user.ID,
		Role:        string(role),
	}).Error)
}

func mustAuditService(t *testing.T, db *gorm.DB) *AuditService {
	t.Helper()

	audit, err := NewAuditService(db)
	require.NoError(t, err)
	return audit
}

// testRegistry builds a drive registry with the google provider pointed at the
// supplied token endpoint.
func testRegistry(tokenURL string) *drive.Registry {
	return drive.NewRegistry(app.DriveConfig{
		Google: app.DriveProviderConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			AuthURL:      "https://accounts.example.com/auth",
			TokenURL:     tokenURL,
		},
	})
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t)
}

func testCtx() context.Context {
	return context.Background()
}
