package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
	"github.com/uniworkhq/uniwork/pkg/crypto"
	"github.com/uniworkhq/uniwork/pkg/logger"
	"github.com/uniworkhq/uniwork/pkg/mail"
)

const (
	// Invitations lapse seven days after creation. Fixed policy.
	invitationExpiry = 7 * 24 * time.Hour
	// 32 random bytes, hex encoded to 64 characters.
	invitationTokenBytes = 32
)

// InvitationOption customises InvitationService behaviour.
type InvitationOption func(*InvitationService)

// WithInvitationBaseURL configures the base URL used to build invite links.
func WithInvitationBaseURL(url string) InvitationOption {
	return func(s *InvitationService) {
		s.baseURL = strings.TrimRight(url, "/")
	}
}

// WithInvitationClock injects a custom clock, primarily for testing.
func WithInvitationClock(clock func() time.Time) InvitationOption {
	return func(s *InvitationService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// InvitationService governs the invitation lifecycle: creation by an
// authorized inviter, single redemption, and lazy expiry on read.
type InvitationService struct {
	db      *gorm.DB
	mailer  mail.Mailer
	audit   *AuditService
	baseURL string
	now     func() time.Time
	log     *zap.Logger
}

// NewInvitationService constructs an InvitationService with the provided dependencies.
func NewInvitationService(db *gorm.DB, mailer mail.Mailer, audit *AuditService, opts ...InvitationOption) (*InvitationService, error) {
	if db == nil {
		return nil, errors.New("invitation service: db is required")
	}

	service := &InvitationService{
		db:     db,
		mailer: mailer,
		audit:  audit,
		now:    time.Now,
		log:    logger.WithModule("invitations"),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// CreateInvitationInput describes the payload accepted by Create.
type CreateInvitationInput struct {
	WorkspaceID string
	Email       string
	Role        rbac.Role
	InvitedByID string
}

// Create issues a pending invitation. The inviter must hold workspace:invite,
// the target email must not already belong to a member, and the notification
// email is best-effort: a delivery failure never undoes the invitation.
func (s *InvitationService) Create(ctx context.Context, input CreateInvitationInput) (*models.Invitation, error) {
	ctx = ensureContext(ctx)

	email := normaliseEmail(input.Email)
	if email == "" {
		return nil, errors.New("invitation service: email is required")
	}
	if !rbac.IsValid(input.Role) || input.Role == rbac.RoleOwner {
		return nil, ErrInvalidRole
	}

	if _, err := requireWorkspacePermission(ctx, s.db, input.WorkspaceID, input.InvitedByID, rbac.ActionWorkspaceInvite); err != nil {
		return nil, err
	}

	alreadyMember, err := s.emailBelongsToMember(ctx, input.WorkspaceID, email)
	if err != nil {
		return nil, err
	}
	if alreadyMember {
		return nil, ErrAlreadyMember
	}

	token, err := crypto.GenerateToken(invitationTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("invitation service: generate token: %w", err)
	}

	now := s.now()
	invitation := &models.Invitation{
		Token:       token,
		Email:       email,
		Role:        string(input.Role),
		Status:      models.InvitationStatusPending,
		WorkspaceID: input.WorkspaceID,
		InvitedByID: input.InvitedByID,
		ExpiresAt:   now.Add(invitationExpiry),
	}

	if err := s.db.WithContext(ctx).Create(invitation).Error; err != nil {
		return nil, fmt.Errorf("invitation service: create invitation: %w", err)
	}

	s.sendInviteEmail(ctx, invitation)

	s.audit.Record(ctx, AuditEntry{
		Action:      AuditInviteSent,
		UserID:      input.InvitedByID,
		WorkspaceID: input.WorkspaceID,
		Details:     map[string]any{"email": email, "role": invitation.Role},
	})

	return invitation, nil
}

// Accept redeems an invitation token for the given user and returns the
// workspace ID joined. A token is redeemable at most once; a pending
// invitation past its expiry flips to expired the first time it is read.
func (s *InvitationService) Accept(ctx context.Context, token, userID string) (string, error) {
	ctx = ensureContext(ctx)

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvitationInvalid
	}

	var invitation models.Invitation
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvitationInvalid
		}
		return "", fmt.Errorf("invitation service: find invitation: %w", err)
	}

	if invitation.Status != models.InvitationStatusPending {
		return "", ErrInvitationInvalid
	}

	now := s.now()
	if now.After(invitation.ExpiresAt) {
		// Lazy transition: expiry is observed at read time, not by a sweeper.
		if err := s.db.WithContext(ctx).
			Model(&models.Invitation{}).
			Where("id = ? AND status = ?", invitation.ID, models.InvitationStatusPending).
			Update("status", models.InvitationStatusExpired).Error; err != nil {
			return "", fmt.Errorf("invitation service: mark expired: %w", err)
		}
		return "", ErrInvitationExpired
	}

	if _, err := workspaceRole(ctx, s.db, invitation.WorkspaceID, userID); err == nil {
		return "", ErrAlreadyMember
	} else if !errors.Is(err, ErrNotAMember) {
		return "", err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional update keeps redemption single-use under concurrency:
		// whoever flips pending -> accepted first wins.
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", invitation.ID, models.InvitationStatusPending).
			Updates(map[string]any{
				"status":      models.InvitationStatusAccepted,
				"accepted_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("invitation service: mark accepted: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvitationInvalid
		}

		member := &models.WorkspaceMember{
			WorkspaceID: invitation.WorkspaceID,
			UserID:      userID,
			Role:        invitation.Role,
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("invitation service: add member: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.audit.Record(ctx, AuditEntry{
		Action:      AuditInviteAccepted,
		UserID:      userID,
		WorkspaceID: invitation.WorkspaceID,
		Details:     map[string]any{"email": invitation.Email, "role": invitation.Role},
	})

	return invitation.WorkspaceID, nil
}

// GetByToken returns the invitation for a token, applying the lazy expiry
// transition when the pending invitation is overdue.
func (s *InvitationService) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	ctx = ensureContext(ctx)

	var invitation models.Invitation
	err := s.db.WithContext(ctx).
		Preload("Workspace").
		Where("token = ?", strings.TrimSpace(token)).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationInvalid
		}
		return nil, fmt.Errorf("invitation service: find invitation: %w", err)
	}

	if invitation.Status == models.InvitationStatusPending && s.now().After(invitation.ExpiresAt) {
		if err := s.db.WithContext(ctx).
			Model(&models.Invitation{}).
			Where("id = ? AND status = ?", invitation.ID, models.InvitationStatusPending).
			Update("status", models.InvitationStatusExpired).Error; err != nil {
			return nil, fmt.Errorf("invitation service: mark expired: %w", err)
		}
		invitation.Status = models.InvitationStatusExpired
	}

	return &invitation, nil
}

// ListPending returns the workspace's pending invitations with inviter info.
// Overdue pending rows are flipped to expired before the listing is built.
func (s *InvitationService) ListPending(ctx context.Context, workspaceID, actorID string) ([]models.Invitation, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionWorkspaceInvite); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("workspace_id = ? AND status = ? AND expires_at < ?", workspaceID, models.InvitationStatusPending, now).
		Update("status", models.InvitationStatusExpired).Error; err != nil {
		return nil, fmt.Errorf("invitation service: expire overdue: %w", err)
	}

	var invitations []models.Invitation
	err := s.db.WithContext(ctx).
		Preload("InvitedBy").
		Where("workspace_id = ? AND status = ?", workspaceID, models.InvitationStatusPending).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, fmt.Errorf("invitation service: list invitations: %w", err)
	}
	return invitations, nil
}

// CleanupTerminal removes invitations that reached a terminal state more than
// the retention window ago. Used by the maintenance cleaner.
func (s *InvitationService) CleanupTerminal(ctx context.Context, olderThan time.Duration) (int64, error) {
	ctx = ensureContext(ctx)

	cutoff := s.now().Add(-olderThan)
	res := s.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", []string{models.InvitationStatusAccepted, models.InvitationStatusExpired}, cutoff).
		Delete(&models.Invitation{})
	if res.Error != nil {
		return 0, fmt.Errorf("invitation service: cleanup: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// InviteLink builds the user-facing acceptance URL for an invitation token.
func (s *InvitationService) InviteLink(token string) string {
	if s.baseURL == "" {
		return "/invite/" + token
	}
	return s.baseURL + "/invite/" + token
}

func (s *InvitationService) sendInviteEmail(ctx context.Context, invitation *models.Invitation) {
	if s.mailer == nil {
		return
	}

	link := s.InviteLink(invitation.Token)
	msg := mail.Message{
		To:      []string{invitation.Email},
		Subject: "You're invited to a UniWork workspace",
		Body: fmt.Sprintf(
			"Hello,\n\nYou have been invited to join a workspace on UniWork as %s. Use the link below to accept:\n%s\n\nThe invitation expires on %s.\nIf you did not expect this email, you can ignore it.\n",
			invitation.Role, link, invitation.ExpiresAt.Format(time.RFC1123),
		),
	}

	if err := s.mailer.Send(ctx, msg); err != nil && !errors.Is(err, mail.ErrSMTPDisabled) {
		// Delivery is best-effort: the invitation stands even if the email fails.
		s.log.Warn("invitation email failed",
			zap.String("workspace_id", invitation.WorkspaceID),
			zap.String("email", invitation.Email),
			zap.Error(err),
		)
	}
}

func (s *InvitationService) emailBelongsToMember(ctx context.Context, workspaceID, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.WorkspaceMember{}).
		Joins("JOIN users ON users.id = workspace_members.user_id").
		Where("workspace_members.workspace_id = ? AND users.email = ?", workspaceID, email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("invitation service: membership lookup: %w", err)
	}
	return count > 0, nil
}
