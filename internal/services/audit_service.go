package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/pkg/logger"
	"github.com/uniworkhq/uniwork/pkg/metrics"
)

// Audit actions form a closed set; anything else is rejected at write time.
const (
	AuditInviteSent        = "invite.sent"
	AuditInviteAccepted    = "invite.accepted"
	AuditMemberRemoved     = "member.removed"
	AuditMemberRoleUpdated = "member.role_updated"
	AuditFileUploaded      = "file.uploaded"
	AuditFileDeleted       = "file.deleted"
	AuditTaskCreated       = "task.created"
	AuditLoginSuccess      = "auth.login_success"
	AuditWorkspaceCreated  = "workspace.created"
	AuditWorkspaceDeleted  = "workspace.deleted"
	AuditDriveLinked       = "drive.linked"
)

var knownAuditActions = map[string]struct{}{
	AuditInviteSent:        {},
	AuditInviteAccepted:    {},
	AuditMemberRemoved:     {},
	AuditMemberRoleUpdated: {},
	AuditFileUploaded:      {},
	AuditFileDeleted:       {},
	AuditTaskCreated:       {},
	AuditLoginSuccess:      {},
	AuditWorkspaceCreated:  {},
	AuditWorkspaceDeleted:  {},
	AuditDriveLinked:       {},
}

// AuditEntry captures a single audit event to persist.
type AuditEntry struct {
	Action      string
	UserID      string
	WorkspaceID string
	IPAddress   string
	Details     map[string]any
}

// AuditFilters encapsulates optional filters when querying audit logs.
type AuditFilters struct {
	UserID      string
	WorkspaceID string
	Action      string
	Since       *time.Time
	Until       *time.Time
}

// AuditListOptions controls pagination and filtering for audit queries.
type AuditListOptions struct {
	Page     int
	PageSize int
	Filters  AuditFilters
}

// AuditService persists and retrieves append-only audit log entries.
type AuditService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAuditService constructs an AuditService using the provided database handle.
func NewAuditService(db *gorm.DB) (*AuditService, error) {
	if db == nil {
		return nil, errors.New("audit service: db is required")
	}
	return &AuditService{
		db:  db,
		log: logger.WithModule("audit"),
	}, nil
}

// Log persists an audit entry, marshalling details into a JSON column.
func (s *AuditService) Log(ctx context.Context, entry AuditEntry) error {
	ctx = ensureContext(ctx)

	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return errors.New("audit service: action is required")
	}
	if _, ok := knownAuditActions[action]; !ok {
		return fmt.Errorf("audit service: unknown action %q", action)
	}

	record := models.AuditLog{
		Action:    action,
		IPAddress: strings.TrimSpace(entry.IPAddress),
	}

	if id := strings.TrimSpace(entry.UserID); id != "" {
		record.UserID = &id
	}
	if id := strings.TrimSpace(entry.WorkspaceID); id != "" {
		record.WorkspaceID = &id
	}
	if entry.Details != nil {
		encoded, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("audit service: marshal details: %w", err)
		}
		record.Details = datatypes.JSON(encoded)
	}

	return s.db.WithContext(ctx).Create(&record).Error
}

// Record is the fire-and-forget entry point used by the rest of the
// application: a failed write is logged and counted, never returned. The
// primary action an entry describes must not fail because auditing did.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	if s == nil {
		return
	}
	if err := s.Log(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		s.log.Error("audit write dropped",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

// List returns paginated audit logs ordered by creation time descending.
func (s *AuditService) List(ctx context.Context, opts AuditListOptions) ([]models.AuditLog, int64, error) {
	ctx = ensureContext(ctx)

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	perPage := opts.PageSize
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	var (
		results []models.AuditLog
		total   int64
	)

	query := s.db.WithContext(ctx).Model(&models.AuditLog{})
	query = applyAuditFilters(query, opts.Filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("audit service: count logs: %w", err)
	}

	if err := query.
		Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("audit service: list logs: %w", err)
	}

	return results, total, nil
}

// CleanupOlderThan removes audit logs older than the supplied retention window (in days).
func (s *AuditService) CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	ctx = ensureContext(ctx)

	if retentionDays <= 0 {
		return 0, errors.New("audit service: retentionDays must be positive")
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("audit service: cleanup logs: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func applyAuditFilters(query *gorm.DB, filters AuditFilters) *gorm.DB {
	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.WorkspaceID != "" {
		query = query.Where("workspace_id = ?", filters.WorkspaceID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.Since != nil {
		query = query.Where("created_at >= ?", *filters.Since)
	}
	if filters.Until != nil {
		query = query.Where("created_at <= ?", *filters.Until)
	}
	return query
}
