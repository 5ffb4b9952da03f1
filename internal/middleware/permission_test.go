package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/database/testutil"
	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
	"github.com/uniworkhq/uniwork/internal/services"
)

func seedMembership(t *testing.T, db *gorm.DB, role rbac.Role) (workspaceID, userID string) {
	t.Helper()

	user := &models.User{Email: "member@example.com", Password: "x", Name: "Member", IsActive: true}
	require.NoError(t, db.Create(user).Error)

	workspace := &models.Workspace{Name: "Acme", Slug: "acme", OwnerID: user.ID}
	require.NoError(t, db.Create(workspace).Error)
	require.NoError(t, db.Create(&models.WorkspaceMember{
		WorkspaceID: workspace.ID,
		UserID:      user.ID,
		Role:        string(role),
	}).Error)

	return workspace.ID, user.ID
}

func permissionRouter(t *testing.T, db *gorm.DB, action rbac.Action, userID string) *gin.Engine {
	t.Helper()

	workspaceSvc, err := services.NewWorkspaceService(db, nil)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/workspaces/:workspaceID/things",
		func(c *gin.Context) { c.Set(CtxUserIDKey, userID) },
		RequireWorkspacePermission(workspaceSvc, action),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r
}

func TestRequireWorkspacePermission(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	workspaceID, userID := seedMembership(t, db, rbac.RoleMember)

	// Members may create tasks.
	r := permissionRouter(t, db, rbac.ActionTaskCreate, userID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/workspaces/"+workspaceID+"/things", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Members may not invite.
	r = permissionRouter(t, db, rbac.ActionWorkspaceInvite, userID)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/workspaces/"+workspaceID+"/things", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireWorkspacePermissionNonMember(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	workspaceID, _ := seedMembership(t, db, rbac.RoleOwner)

	outsider := &models.User{Email: "outsider@example.com", Password: "x", Name: "Out", IsActive: true}
	require.NoError(t, db.Create(outsider).Error)

	r := permissionRouter(t, db, rbac.ActionTaskCreate, outsider.ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/workspaces/"+workspaceID+"/things", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireWorkspacePermissionUnknownAction(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	workspaceID, userID := seedMembership(t, db, rbac.RoleOwner)

	// Even the owner is denied for an action outside the table.
	r := permissionRouter(t, db, rbac.Action("workspace:selfdestruct"), userID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/workspaces/"+workspaceID+"/things", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}
