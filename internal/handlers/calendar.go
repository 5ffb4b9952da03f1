package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniworkhq/uniwork/internal/middleware"
	"github.com/uniworkhq/uniwork/internal/services"
	"github.com/uniworkhq/uniwork/pkg/response"
)

// CalendarHandler serves workspace calendar endpoints.
type CalendarHandler struct {
	calendar *services.CalendarService
}

func NewCalendarHandler(calendar *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

type createEventRequest struct {
	Title       string    `json:"title" validate:"required,max=256"`
	Description string    `json:"description" validate:"omitempty,max=4096"`
	Location    string    `json:"location" validate:"omitempty,max=256"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	AllDay      bool      `json:"all_day"`
}

type updateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=256"`
	Description *string    `json:"description" validate:"omitempty,max=4096"`
	Location    *string    `json:"location" validate:"omitempty,max=256"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	AllDay      *bool      `json:"all_day"`
}

// POST /api/workspaces/:workspaceID/events
func (h *CalendarHandler) Create(c *gin.Context) {
	var req createEventRequest
	if !bindAndValidate(c, &req) {
		return
	}

	event, err := h.calendar.Create(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey),
		services.CreateEventInput{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			StartsAt:    req.StartsAt,
			EndsAt:      req.EndsAt,
			AllDay:      req.AllDay,
		})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"event": event})
}

// GET /api/workspaces/:workspaceID/events?from=...&to=...
func (h *CalendarHandler) List(c *gin.Context) {
	from := parseTimeQuery(c, "from")
	to := parseTimeQuery(c, "to")

	events, err := h.calendar.List(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}

// PATCH /api/workspaces/:workspaceID/events/:eventID
func (h *CalendarHandler) Update(c *gin.Context) {
	var req updateEventRequest
	if !bindAndValidate(c, &req) {
		return
	}

	event, err := h.calendar.Update(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("eventID"),
		services.UpdateEventInput{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			StartsAt:    req.StartsAt,
			EndsAt:      req.EndsAt,
			AllDay:      req.AllDay,
		})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event": event})
}

// DELETE /api/workspaces/:workspaceID/events/:eventID
func (h *CalendarHandler) Delete(c *gin.Context) {
	err := h.calendar.Delete(requestContext(c),
		c.Param("workspaceID"), c.GetString(middleware.CtxUserIDKey), c.Param("eventID"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func parseTimeQuery(c *gin.Context, key string) time.Time {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
