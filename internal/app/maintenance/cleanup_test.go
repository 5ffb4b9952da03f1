package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/database/testutil"
	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/services"
)

func seedInvitation(t *testing.T, db *gorm.DB, status string) *models.Invitation {
	t.Helper()

	invitation := &models.Invitation{
		Token:       uuid.NewString() + uuid.NewString(),
		Email:       uuid.NewString() + "@example.com",
		Role:        "member",
		Status:      status,
		WorkspaceID: uuid.NewString(),
		InvitedByID: uuid.NewString(),
		ExpiresAt:   time.Now().Add(7 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(invitation).Error)
	return invitation
}

func TestRunOnceEnforcesRetention(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	old := &models.AuditLog{Action: "user.login"}
	require.NoError(t, db.Create(old).Error)
	require.NoError(t, db.Model(old).
		UpdateColumn("created_at", time.Now().Add(-120*24*time.Hour)).Error)
	recent := &models.AuditLog{Action: "user.login"}
	require.NoError(t, db.Create(recent).Error)

	// Terminal invitations older than the retention window are removed; the
	// clock is advanced so the freshly written rows fall behind the cutoff.
	invitations, err := services.NewInvitationService(db, nil, nil,
		services.WithInvitationClock(func() time.Time {
			return time.Now().Add(60 * 24 * time.Hour)
		}))
	require.NoError(t, err)

	accepted := seedInvitation(t, db, models.InvitationStatusAccepted)
	expired := seedInvitation(t, db, models.InvitationStatusExpired)
	pending := seedInvitation(t, db, models.InvitationStatusPending)

	cleaner := NewCleaner(audit, invitations,
		WithAuditRetentionDays(90),
		WithInviteRetention(30*24*time.Hour))
	require.NoError(t, cleaner.RunOnce(context.Background()))

	var auditCount int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&auditCount).Error)
	require.EqualValues(t, 1, auditCount)

	var remaining []models.Invitation
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, pending.ID, remaining[0].ID)

	require.Error(t, db.First(&models.Invitation{}, "id = ?", accepted.ID).Error)
	require.Error(t, db.First(&models.Invitation{}, "id = ?", expired.ID).Error)
}

func TestRunOnceWithoutDependencies(t *testing.T) {
	cleaner := NewCleaner(nil, nil)
	require.NoError(t, cleaner.RunOnce(context.Background()))
}

func TestStartRegistersScheduledJobs(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	audit, err := services.NewAuditService(db)
	require.NoError(t, err)
	invitations, err := services.NewInvitationService(db, nil, nil)
	require.NoError(t, err)

	scheduler := cron.New(cron.WithLogger(cron.DiscardLogger))
	cleaner := NewCleaner(audit, invitations, WithCron(scheduler))

	require.NoError(t, cleaner.Start())
	require.Len(t, scheduler.Entries(), 2)

	<-cleaner.Stop().Done()
}
