package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/repository"
	"github.com/iliyamo/event-booking/internal/service"
)

// EventHandler serves the public event catalogue and the admin CRUD
// surface. Mutations invalidate the cached listings so the public side
// never serves stale capacity for longer than one request.
type EventHandler struct {
	Events *repository.EventRepo
	Cache  *service.EventsCache
}

func NewEventHandler(events *repository.EventRepo, cache *service.EventsCache) *EventHandler {
	if events == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events, Cache: cache}
}

type eventReq struct {
	Title      string `json:"title"`
	Date       string `json:"date"` // RFC 3339
	Location   string `json:"location"`
	TotalSeats uint32 `json:"total_seats"`
}

func (r *eventReq) validate() (time.Time, string) {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	if r.Title == "" {
		return time.Time{}, "title required"
	}
	if r.TotalSeats == 0 {
		return time.Time{}, "total_seats must be positive"
	}
	when, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return time.Time{}, "date must be RFC 3339"
	}
	return when, ""
}

// List returns every event ordered by date. The route sits behind the
// response cache, so most hits never reach this handler.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		return writeBusinessError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// Get returns a single event including its live seat counters.
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return writeBusinessError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// Create registers a new event (admin only).
func (h *EventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	when, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	event := &model.Event{
		Title:      req.Title,
		Date:       when,
		Location:   req.Location,
		TotalSeats: req.TotalSeats,
	}
	if err := h.Events.Create(ctx, event); err != nil {
		return writeBusinessError(c, err)
	}
	h.invalidate(ctx, c)
	return c.JSON(http.StatusCreated, event)
}

// Update rewrites an event's descriptive fields and capacity (admin
// only). Shrinking capacity below the booked count is refused with 409.
func (h *EventHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	when, msg := req.validate()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	event, err := h.Events.Update(ctx, id, req.Title,
		when.UTC().Format("2006-01-02 15:04:05"), req.Location, req.TotalSeats)
	if err != nil {
		return writeBusinessError(c, err)
	}
	h.invalidate(ctx, c)
	return c.JSON(http.StatusOK, event)
}

// Delete removes an event without confirmed bookings (admin only).
// Events with live bookings return 409.
func (h *EventHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		return writeBusinessError(c, err)
	}
	h.invalidate(ctx, c)
	return c.NoContent(http.StatusNoContent)
}

func (h *EventHandler) invalidate(ctx context.Context, c echo.Context) {
	if err := h.Cache.Invalidate(ctx); err != nil {
		c.Logger().Warnf("events cache invalidation failed: %v", err)
	}
}
