package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/uniworkhq/uniwork/internal/models"
	"github.com/uniworkhq/uniwork/internal/rbac"
	apperrors "github.com/uniworkhq/uniwork/pkg/errors"
)

// CalendarService manages workspace calendar events.
type CalendarService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewCalendarService constructs a CalendarService with the provided dependencies.
func NewCalendarService(db *gorm.DB, audit *AuditService) (*CalendarService, error) {
	if db == nil {
		return nil, errors.New("calendar service: db is required")
	}
	return &CalendarService{db: db, audit: audit}, nil
}

// CreateEventInput describes a new calendar event.
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	AllDay      bool
}

// UpdateEventInput carries optional event updates. Nil fields are left unchanged.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	AllDay      *bool
}

// Create schedules an event on the workspace calendar. Requires event:create.
func (s *CalendarService) Create(ctx context.Context, workspaceID, actorID string, input CreateEventInput) (*models.CalendarEvent, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionEventCreate); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("event title is required")
	}
	if err := validateEventWindow(input.StartsAt, input.EndsAt); err != nil {
		return nil, err
	}

	event := &models.CalendarEvent{
		WorkspaceID: workspaceID,
		Title:       title,
		Description: input.Description,
		Location:    strings.TrimSpace(input.Location),
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		AllDay:      input.AllDay,
		CreatedByID: actorID,
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("calendar service: create event: %w", err)
	}
	return event, nil
}

// Update modifies an existing event. Requires the event:update permission.
func (s *CalendarService) Update(ctx context.Context, workspaceID, actorID, eventID string, input UpdateEventInput) (*models.CalendarEvent, error) {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionEventUpdate); err != nil {
		return nil, err
	}

	event, err := s.getEvent(ctx, workspaceID, eventID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("event title is required")
		}
		event.Title = title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = strings.TrimSpace(*input.Location)
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = *input.EndsAt
	}
	if input.AllDay != nil {
		event.AllDay = *input.AllDay
	}
	if err := validateEventWindow(event.StartsAt, event.EndsAt); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return nil, fmt.Errorf("calendar service: update event: %w", err)
	}
	return event, nil
}

// Delete removes an event. Requires the event:delete permission.
func (s *CalendarService) Delete(ctx context.Context, workspaceID, actorID, eventID string) error {
	ctx = ensureContext(ctx)

	if _, err := requireWorkspacePermission(ctx, s.db, workspaceID, actorID, rbac.ActionEventDelete); err != nil {
		return err
	}

	event, err := s.getEvent(ctx, workspaceID, eventID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(event).Error; err != nil {
		return fmt.Errorf("calendar service: delete event: %w", err)
	}
	return nil
}

// List returns events overlapping the [from, to) window, ordered by start time.
// A zero from/to means an unbounded window on that side.
func (s *CalendarService) List(ctx context.Context, workspaceID, actorID string, from, to time.Time) ([]models.CalendarEvent, error) {
	ctx = ensureContext(ctx)

	if _, err := workspaceRole(ctx, s.db, workspaceID, actorID); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID)
	if !from.IsZero() {
		query = query.Where("ends_at > ?", from)
	}
	if !to.IsZero() {
		query = query.Where("starts_at < ?", to)
	}

	var events []models.CalendarEvent
	if err := query.Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("calendar service: list events: %w", err)
	}
	return events, nil
}

func (s *CalendarService) getEvent(ctx context.Context, workspaceID, eventID string) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND id = ?", workspaceID, eventID).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("calendar service: load event: %w", err)
	}
	return &event, nil
}

func validateEventWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.NewBadRequest("event start and end times are required")
	}
	if !end.After(start) {
		return apperrors.NewBadRequest("event must end after it starts")
	}
	return nil
}
