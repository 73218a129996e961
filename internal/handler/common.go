package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/repository"
)

// getUserID extracts the user_id claim from the context. JWT numeric
// claims arrive as float64; tests and other middleware may store
// native integer types.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

func getRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// pathID parses a numeric path parameter; zero is not a valid ID.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// writeBusinessError maps the closed set of business error kinds onto
// HTTP statuses. Anything outside the set falls through to a 500 so
// unexpected failures are never dressed up as client errors.
func writeBusinessError(c echo.Context, err error) error {
	var be *repository.BusinessError
	if errors.As(err, &be) {
		switch be.Kind {
		case repository.KindEventNotFound, repository.KindBookingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": be.Detail})
		case repository.KindInsufficientSeats:
			return c.JSON(http.StatusConflict, echo.Map{"error": be.Detail})
		case repository.KindUnauthorizedBooking:
			return c.JSON(http.StatusForbidden, echo.Map{"error": be.Detail})
		}
	}
	if errors.Is(err, repository.ErrConflict) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
