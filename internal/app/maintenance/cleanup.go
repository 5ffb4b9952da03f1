package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/logger"
)

const (
	defaultAuditRetentionDays = 90
	defaultInviteRetention    = 30 * 24 * time.Hour
	defaultAuditSpec          = "@daily"
	defaultInviteSpec         = "@daily"
)

// Cleaner coordinates background maintenance tasks: enforcing the audit log
// retention window and purging invitations that reached a terminal state.
type Cleaner struct {
	audit       *services.AuditService
	invitations *services.InvitationService
	cron        *cron.Cron
	log         *zap.Logger

	retention       int
	inviteRetention time.Duration
	auditSchedule   string
	inviteSchedule  string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithAuditRetentionDays adjusts how long audit logs are retained before cleanup.
func WithAuditRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.retention = days
		}
	}
}

// WithInviteRetention adjusts how long terminal invitations are kept.
func WithInviteRetention(d time.Duration) Option {
	return func(cleaner *Cleaner) {
		if d > 0 {
			cleaner.inviteRetention = d
		}
	}
}

// WithAuditSchedule overrides the cron specification for audit retention enforcement.
func WithAuditSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.auditSchedule = spec
		}
	}
}

// WithInviteSchedule overrides the cron specification for invitation cleanup.
func WithInviteSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.inviteSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. A nil dependency results
// in the corresponding cleanup job being skipped.
func NewCleaner(audit *services.AuditService, invitations *services.InvitationService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		audit:           audit,
		invitations:     invitations,
		retention:       defaultAuditRetentionDays,
		inviteRetention: defaultInviteRetention,
		auditSchedule:   defaultAuditSpec,
		inviteSchedule:  defaultInviteSpec,
		log:             logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers cleanup jobs with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.audit != nil && c.retention > 0 {
		if _, err := c.cron.AddFunc(c.auditSchedule, func() {
			if _, err := c.audit.CleanupOlderThan(context.Background(), c.retention); err != nil {
				c.log.Warn("audit cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	if c.invitations != nil {
		if _, err := c.cron.AddFunc(c.inviteSchedule, func() {
			if _, err := c.invitations.CleanupTerminal(context.Background(), c.inviteRetention); err != nil {
				c.log.Warn("invitation cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured cleanup routines sequentially. Used in tests
// and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.audit != nil && c.retention > 0 {
		if _, err := c.audit.CleanupOlderThan(ctx, c.retention); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.invitations != nil {
		if _, err := c.invitations.CleanupTerminal(ctx, c.inviteRetention); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
