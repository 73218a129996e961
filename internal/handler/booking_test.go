package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/repository"
)

// stubEngine returns canned results per method.
type stubEngine struct {
	reserve func(userID, eventID uint64, seats uint32) (*model.Booking, error)
	list    func(userID uint64, role string) ([]model.Booking, error)
	getOne  func(userID uint64, role string, id uint64) (*model.Booking, error)
	cancel  func(userID uint64, role string, id uint64) (*model.Booking, error)
}

func (s *stubEngine) Reserve(_ context.Context, userID, eventID uint64, seats uint32) (*model.Booking, error) {
	return s.reserve(userID, eventID, seats)
}
func (s *stubEngine) List(_ context.Context, userID uint64, role string) ([]model.Booking, error) {
	return s.list(userID, role)
}
func (s *stubEngine) GetOne(_ context.Context, userID uint64, role string, id uint64) (*model.Booking, error) {
	return s.getOne(userID, role, id)
}
func (s *stubEngine) Cancel(_ context.Context, userID uint64, role string, id uint64) (*model.Booking, error) {
	return s.cancel(userID, role, id)
}

func newBookingCtx(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	// Claims as the JWT middleware leaves them: float64 sub.
	c.Set("user_id", float64(3))
	c.Set("role", model.RoleUser)
	return c, rec
}

func TestCreateBookingSuccess(t *testing.T) {
	engine := &stubEngine{
		reserve: func(userID, eventID uint64, seats uint32) (*model.Booking, error) {
			assert.Equal(t, uint64(3), userID)
			assert.Equal(t, uint64(7), eventID)
			assert.Equal(t, uint32(2), seats)
			return &model.Booking{ID: 42, UserID: userID, EventID: eventID, Seats: seats, Status: model.BookingConfirmed}, nil
		},
	}
	h := NewBookingHandler(engine)

	c, rec := newBookingCtx(t, http.MethodPost, "/v1/bookings", `{"event_id":7,"seats":2}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
}

func TestCreateBookingValidation(t *testing.T) {
	engine := &stubEngine{
		reserve: func(uint64, uint64, uint32) (*model.Booking, error) {
			t.Fatal("engine must not be called for invalid input")
			return nil, nil
		},
	}
	h := NewBookingHandler(engine)

	for _, body := range []string{
		`{"event_id":0,"seats":2}`,
		`{"event_id":7,"seats":0}`,
		`{"event_id":7,"seats":-3}`,
	} {
		c, rec := newBookingCtx(t, http.MethodPost, "/v1/bookings", body)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body=%s", body)
	}
}

func TestCreateBookingStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"event missing", repository.NewEventNotFound(7), http.StatusNotFound},
		{"insufficient seats", repository.NewInsufficientSeats(1), http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := &stubEngine{
				reserve: func(uint64, uint64, uint32) (*model.Booking, error) { return nil, tc.err },
			}
			h := NewBookingHandler(engine)

			c, rec := newBookingCtx(t, http.MethodPost, "/v1/bookings", `{"event_id":7,"seats":2}`)
			require.NoError(t, h.Create(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestGetBookingForbidden(t *testing.T) {
	engine := &stubEngine{
		getOne: func(uint64, string, uint64) (*model.Booking, error) {
			return nil, repository.NewUnauthorizedBooking()
		},
	}
	h := NewBookingHandler(engine)

	c, rec := newBookingCtx(t, http.MethodGet, "/v1/bookings/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Get(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancelBookingNotFound(t *testing.T) {
	engine := &stubEngine{
		cancel: func(uint64, string, uint64) (*model.Booking, error) {
			return nil, repository.NewBookingNotFound(42)
		},
	}
	h := NewBookingHandler(engine)

	c, rec := newBookingCtx(t, http.MethodDelete, "/v1/bookings/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Cancel(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBookingsPassesRole(t *testing.T) {
	engine := &stubEngine{
		list: func(userID uint64, role string) ([]model.Booking, error) {
			assert.Equal(t, uint64(3), userID)
			assert.Equal(t, model.RoleAdmin, role)
			return []model.Booking{{ID: 1}, {ID: 2}}, nil
		},
	}
	h := NewBookingHandler(engine)

	c, rec := newBookingCtx(t, http.MethodGet, "/v1/bookings", "")
	c.Set("role", model.RoleAdmin)
	require.NoError(t, h.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bookings"`)
}
