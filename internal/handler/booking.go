package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/service"
)

// BookingEngine is the slice of the booking service the HTTP layer
// needs. Tests substitute a stub.
type BookingEngine interface {
	Reserve(ctx context.Context, userID, eventID uint64, seats uint32) (*model.Booking, error)
	List(ctx context.Context, userID uint64, role string) ([]model.Booking, error)
	GetOne(ctx context.Context, userID uint64, role string, id uint64) (*model.Booking, error)
	Cancel(ctx context.Context, userID uint64, role string, id uint64) (*model.Booking, error)
}

// BookingHandler exposes booking reservation and lifecycle endpoints.
type BookingHandler struct {
	Engine BookingEngine
}

func NewBookingHandler(engine BookingEngine) *BookingHandler {
	if engine == nil {
		panic("nil engine passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine}
}

type createBookingReq struct {
	EventID uint64 `json:"event_id"`
	Seats   int64  `json:"seats"`
}

// Create reserves seats for the authenticated user. Seat counts are
// validated here so non-positive values never reach the ledger.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id required"})
	}
	if req.Seats <= 0 || req.Seats > math.MaxUint32 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be a positive integer"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	booking, err := h.Engine.Reserve(ctx, uid, req.EventID, uint32(req.Seats))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSeats) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return writeBusinessError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// List returns the caller's bookings, newest first. Admins see every
// booking in the system.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Engine.List(ctx, uid, getRole(c))
	if err != nil {
		return writeBusinessError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// Get returns one booking, owner or admin only.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, err := h.Engine.GetOne(ctx, uid, getRole(c), id)
	if err != nil {
		return writeBusinessError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// Cancel releases a booking's seats. Cancelling an already-cancelled
// booking yields 404, so the operation is safe to retry.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	booking, err := h.Engine.Cancel(ctx, uid, getRole(c), id)
	if err != nil {
		return writeBusinessError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}
