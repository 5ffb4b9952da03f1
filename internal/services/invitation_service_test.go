package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
)

func TestInvitationCreate(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewInvitationService(db, nil, mustAuditService(t, db))
	require.NoError(t, err)

	invitation, err := service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       "  New.Person@Example.COM ",
		Role:        rbac.RoleMember,
		InvitedByID: owner.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, "new.person@example.com", invitation.Email)
	assert.Equal(t, models.InvitationStatusPending, invitation.Status)
	assert.Len(t, invitation.Token, 64)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), invitation.ExpiresAt, time.Minute)

	var audit models.AuditLog
	require.NoError(t, db.Where("action = ?", AuditInviteSent).First(&audit).Error)
	require.NotNil(t, audit.WorkspaceID)
	assert.Equal(t, workspace.ID, *audit.WorkspaceID)
}

func TestInvitationCreateRequiresPermission(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	outsider := seedUser(t, db, "outsider@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")
	seedMember(t, db, workspace, member, rbac.RoleMember)

	service, err := NewInvitationService(db, nil, mustAuditService(t, db))
	require.NoError(t, err)

	_, err = service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       "new@example.com",
		Role:        rbac.RoleMember,
		InvitedByID: member.ID,
	})
	assert.ErrorIs(t, err, ErrInsufficientPermission)

	_, err = service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       "new@example.com",
		Role:        rbac.RoleMember,
		InvitedByID: outsider.ID,
	})
	assert.ErrorIs(t, err, ErrNotAMember)
}

func TestInvitationCreateRejectsExistingMember(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")
	seedMember(t, db, workspace, member, rbac.RoleMember)

	service, err := NewInvitationService(db, nil, mustAuditService(t, db))
	require.NoError(t, err)

	_, err = service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       "Member@Example.com",
		Role:        rbac.RoleMember,
		InvitedByID: owner.ID,
	})
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestInvitationCreateRejectsOwnerRole(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewInvitationService(db, nil, mustAuditService(t, db))
	require.NoError(t, err)

	for _, role := range []rbac.Role{rbac.RoleOwner, rbac.Role("superuser")} {
		_, err = service.Create(testCtx(), CreateInvitationInput{
			WorkspaceID: workspace.ID,
			Email:       "new@example.com",
			Role:        role,
			InvitedByID: owner.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidRole)
	}
}

func TestInvitationAccept(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	invitee := seedUser(t, db, "invitee@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewInvitationService(db, nil, mustAuditService(t, db))
	require.NoError(t, err)

	invitation, err := service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       invitee.Email,
		Role:        rbac.RoleManager,
		InvitedByID: owner.ID,
	})
	require.NoError(t, err)

	workspaceID, err := service.Accept(testCtx(), invitation.Token, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, workspace.ID, workspaceID)

	var member models.WorkspaceMember
	require.NoError(t, db.Where("workspace_id = ? AND user_id = ?", workspace.ID, invitee.ID).First(&member).Error)
	assert.Equal(t, string(rbac.RoleManager), member.Role)

	var stored models.Invitation
	require.NoError(t, db.First(&stored, "id = ?", invitation.ID).Error)
	assert.Equal(t, models.InvitationStatusAccepted, stored.Status)
	require.NotNil(t, stored.AcceptedAt)
}

func TestInvitationAcceptIsSingleUse(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	first := seedUser(t, db, "first@example.com")
	second := seedUser(t, db, "second@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewInvitationService(db, nil, mustAuditService(t, db))
	require.NoError(t, err)

	invitation, err := service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       "shared@example.com",
		Role:        rbac.RoleMember,
		InvitedByID: owner.ID,
	})
	require.NoError(t, err)

	_, err = service.Accept(testCtx(), invitation.Token, first.ID)
	require.NoError(t, err)

	_, err = service.Accept(testCtx(), invitation.Token, second.ID)
	assert.ErrorIs(t, err, ErrInvitationInvalid)

	var count int64
	require.NoError(t, db.Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspace.ID, second.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestInvitationAcceptUnknownToken(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "user@example.com")

	service, err := NewInvitationService(db, nil, mustAuditService(t, db))
	require.NoError(t, err)

	_, err = service.Accept(testCtx(), "no-such-token", user.ID)
	assert.ErrorIs(t, err, ErrInvitationInvalid)

	_, err = service.Accept(testCtx(), "", user.ID)
	assert.ErrorIs(t, err, ErrInvitationInvalid)
}

func TestInvitationLazyExpiryOnAccept(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	invitee := seedUser(t, db, "invitee@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	issued := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	clock := issued
	service, err := NewInvitationService(db, nil, mustAuditService(t, db),
		WithInvitationClock(func() time.Time { return clock }))
	require.NoError(t, err)

	invitation, err := service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       invitee.Email,
		Role:        rbac.RoleMember,
		InvitedByID: owner.ID,
	})
	require.NoError(t, err)

	// Eight days later the invitation is overdue: the first read flips it.
	clock = issued.Add(8 * 24 * time.Hour)
	_, err = service.Accept(testCtx(), invitation.Token, invitee.ID)
	assert.ErrorIs(t, err, ErrInvitationExpired)

	var stored models.Invitation
	require.NoError(t, db.First(&stored, "id = ?", invitation.ID).Error)
	assert.Equal(t, models.InvitationStatusExpired, stored.Status)

	// Subsequent reads see the terminal state, not "expired" again.
	_, err = service.Accept(testCtx(), invitation.Token, invitee.ID)
	assert.ErrorIs(t, err, ErrInvitationInvalid)
}

func TestInvitationAcceptExistingMember(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	member := seedUser(t, db, "member@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")
	seedMember(t, db, workspace, member, rbac.RoleViewer)

	service, err := NewInvitationService(db, nil, mustAuditService(t, db))
	require.NoError(t, err)

	invitation, err := service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       "someoneelse@example.com",
		Role:        rbac.RoleMember,
		InvitedByID: owner.ID,
	})
	require.NoError(t, err)

	_, err = service.Accept(testCtx(), invitation.Token, member.ID)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	// The invitation survives for someone who is not yet a member.
	var stored models.Invitation
	require.NoError(t, db.First(&stored, "id = ?", invitation.ID).Error)
	assert.Equal(t, models.InvitationStatusPending, stored.Status)
}

func TestInvitationGetByTokenLazyExpiry(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	issued := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	clock := issued
	service, err := NewInvitationService(db, nil, mustAuditService(t, db),
		WithInvitationClock(func() time.Time { return clock }))
	require.NoError(t, err)

	invitation, err := service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       "late@example.com",
		Role:        rbac.RoleMember,
		InvitedByID: owner.ID,
	})
	require.NoError(t, err)

	fetched, err := service.GetByToken(testCtx(), invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusPending, fetched.Status)

	clock = issued.Add(7*24*time.Hour + time.Minute)
	fetched, err = service.GetByToken(testCtx(), invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusExpired, fetched.Status)
}

func TestInvitationListPendingExpiresOverdue(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	issued := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	clock := issued
	service, err := NewInvitationService(db, nil, mustAuditService(t, db),
		WithInvitationClock(func() time.Time { return clock }))
	require.NoError(t, err)

	stale, err := service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       "stale@example.com",
		Role:        rbac.RoleMember,
		InvitedByID: owner.ID,
	})
	require.NoError(t, err)

	clock = issued.Add(6 * 24 * time.Hour)
	fresh, err := service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       "fresh@example.com",
		Role:        rbac.RoleMember,
		InvitedByID: owner.ID,
	})
	require.NoError(t, err)

	clock = issued.Add(8 * 24 * time.Hour)
	pending, err := service.ListPending(testCtx(), workspace.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, fresh.ID, pending[0].ID)

	var stored models.Invitation
	require.NoError(t, db.First(&stored, "id = ?", stale.ID).Error)
	assert.Equal(t, models.InvitationStatusExpired, stored.Status)
}

func TestInvitationCleanupTerminal(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	invitee := seedUser(t, db, "invitee@example.com")
	workspace := seedWorkspace(t, db, owner, "acme")

	service, err := NewInvitationService(db, nil, mustAuditService(t, db))
	require.NoError(t, err)

	accepted, err := service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       invitee.Email,
		Role:        rbac.RoleMember,
		InvitedByID: owner.ID,
	})
	require.NoError(t, err)
	_, err = service.Accept(testCtx(), accepted.Token, invitee.ID)
	require.NoError(t, err)

	pendingInvite, err := service.Create(testCtx(), CreateInvitationInput{
		WorkspaceID: workspace.ID,
		Email:       "pending@example.com",
		Role:        rbac.RoleMember,
		InvitedByID: owner.ID,
	})
	require.NoError(t, err)

	// Zero retention removes everything terminal; pending rows are untouched.
	removed, err := service.CleanupTerminal(testCtx(), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	var remaining []models.Invitation
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, pendingInvite.ID, remaining[0].ID)
}

func TestInviteLink(t *testing.T) {
	db := openTestDB(t)

	service, err := NewInvitationService(db, nil, nil,
		WithInvitationBaseURL("https://app.example.com/"))
	require.NoError(t, err)

	assert.Equal(t, "https://app.example.com/invite/tok123", service.InviteLink("tok123"))
}
